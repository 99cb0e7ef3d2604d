package gesture_test

import (
	"testing"

	"geckoland/internal/gesture"

	"github.com/stretchr/testify/assert"
)

func TestNotArmedWhenScrolledDown(t *testing.T) {
	p := gesture.New(gesture.Config{})

	p.TouchStart(100, 50)
	assert.Equal(t, gesture.Idle, p.State())

	p.TouchMove(400)
	assert.Equal(t, 0.0, p.PullDistance())
}

func TestArmedAtTopOfRegion(t *testing.T) {
	p := gesture.New(gesture.Config{})

	p.TouchStart(100, 0)
	assert.Equal(t, gesture.Tracking, p.State())
}

func TestPullDistanceIsDamped(t *testing.T) {
	p := gesture.New(gesture.Config{Threshold: 80, Resistance: 2.5})

	p.TouchStart(100, 0)
	p.TouchMove(200)
	assert.Equal(t, 40.0, p.PullDistance())

	// Upward movement clamps to zero instead of going negative.
	p.TouchMove(50)
	assert.Equal(t, 0.0, p.PullDistance())
}

func TestPullDistanceCapsAtOneAndAHalfThresholds(t *testing.T) {
	p := gesture.New(gesture.Config{Threshold: 80, Resistance: 2.5})

	p.TouchStart(0, 0)
	p.TouchMove(10000)
	assert.Equal(t, 120.0, p.PullDistance())
}

func TestReleaseBelowThresholdSnapsBack(t *testing.T) {
	refreshed := false
	p := gesture.New(gesture.Config{Threshold: 80, Resistance: 2.5, OnRefresh: func() {
		refreshed = true
	}})

	p.TouchStart(0, 0)
	p.TouchMove(100)
	p.TouchEnd()

	assert.False(t, refreshed)
	assert.Equal(t, gesture.Idle, p.State())
	assert.Equal(t, 0.0, p.PullDistance())
}

func TestReleaseAtThresholdRefreshesAndHolds(t *testing.T) {
	var p *gesture.PullToRefresh
	var calls int
	var stateDuring gesture.State
	var distanceDuring float64
	p = gesture.New(gesture.Config{Threshold: 80, Resistance: 2.5, OnRefresh: func() {
		calls++
		stateDuring = p.State()
		distanceDuring = p.PullDistance()
	}})

	p.TouchStart(0, 0)
	p.TouchMove(500)
	p.TouchEnd()

	assert.Equal(t, 1, calls)
	assert.Equal(t, gesture.Refreshing, stateDuring)
	assert.Equal(t, 80.0, distanceDuring)
	assert.Equal(t, gesture.Idle, p.State())
	assert.Equal(t, 0.0, p.PullDistance())
}

func TestEventsIgnoredWhileRefreshing(t *testing.T) {
	var p *gesture.PullToRefresh
	var movedDistance float64
	p = gesture.New(gesture.Config{Threshold: 80, Resistance: 2.5, OnRefresh: func() {
		p.TouchStart(0, 0)
		p.TouchMove(1000)
		movedDistance = p.PullDistance()
	}})

	p.TouchStart(0, 0)
	p.TouchMove(500)
	p.TouchEnd()

	// Touches during the refresh neither re-arm nor move the indicator.
	assert.Equal(t, 80.0, movedDistance)
	assert.Equal(t, gesture.Idle, p.State())
}

func TestZeroConfigFallsBackToDefaults(t *testing.T) {
	p := gesture.New(gesture.Config{})

	p.TouchStart(0, 0)
	p.TouchMove(gesture.DefaultThreshold * gesture.DefaultResistance)
	assert.Equal(t, gesture.DefaultThreshold, p.PullDistance())
}

func TestTouchEndWithoutTrackingIsNoOp(t *testing.T) {
	refreshed := false
	p := gesture.New(gesture.Config{OnRefresh: func() { refreshed = true }})

	p.TouchEnd()

	assert.False(t, refreshed)
	assert.Equal(t, gesture.Idle, p.State())
}
