package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"geckoland/internal/geo"
	"geckoland/internal/models"
	"geckoland/internal/repositories"
)

// maxUsernameAttempts bounds the provisioning retry loop. Exhausting it
// leaves the user without a profile row.
const maxUsernameAttempts = 5

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

var usernameBaseStrip = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// maxUsernameBaseLen keeps the generated candidate (base plus the two
// 5-character suffixes) inside the 20 character username column.
const maxUsernameBaseLen = 10

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// ProfileUpdate carries the editable profile fields. Nil pointers leave the
// corresponding field untouched.
type ProfileUpdate struct {
	Username    *string
	FullName    *string
	AvatarURL   *string
	Tag         *string
	Description *string
}

// NearbyUser is a user annotated with their distance from a query point.
type NearbyUser struct {
	models.User
	DistanceKm float64 `json:"distance_km"`
}

// UserService handles profile logic: fetching, editing, first-login
// provisioning and the nearby search.
type UserService struct {
	userRepo repositories.UserRepository
	feedRepo repositories.FeedRepository
	geocoder geo.ReverseGeocoder
}

// NewUserService creates a new UserService. geocoder may be nil, in which
// case location updates store coordinates without a place name.
func NewUserService(userRepo repositories.UserRepository, feedRepo repositories.FeedRepository, geocoder geo.ReverseGeocoder) *UserService {
	return &UserService{
		userRepo: userRepo,
		feedRepo: feedRepo,
		geocoder: geocoder,
	}
}

// GetCurrentUser returns the signed-in user's profile, or nil when there is
// no session.
func (s *UserService) GetCurrentUser(userID string) (*models.User, error) {
	if userID == "" {
		return nil, nil
	}
	return s.userRepo.GetByID(userID)
}

// GetUserByID returns a user by their ID.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByUsername looks a user up by username. A missing user is a valid
// outcome, not a failure: it returns (nil, nil).
func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// GetUserFeedsCount returns how many feeds a user has posted.
func (s *UserService) GetUserFeedsCount(userID string) (int64, error) {
	return s.feedRepo.CountByUserID(userID)
}

// UpdateProfile applies a partial profile edit for the signed-in user.
// Username changes are validated before any repository call and a collision
// surfaces as ErrUsernameTaken for the user to correct.
func (s *UserService) UpdateProfile(userID string, upd ProfileUpdate) (*models.User, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if upd.Username != nil && !usernameRe.MatchString(*upd.Username) {
		return nil, ErrInvalidUsername
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if upd.Username != nil {
		user.Username = *upd.Username
	}
	if upd.FullName != nil {
		user.FullName = *upd.FullName
	}
	if upd.AvatarURL != nil {
		user.AvatarURL = *upd.AvatarURL
	}
	if upd.Tag != nil {
		user.Tag = *upd.Tag
	}
	if upd.Description != nil {
		user.Description = *upd.Description
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("failed to update profile: %w", ErrUsernameTaken)
		}
		return nil, err
	}
	return user, nil
}

// UpdateLocation stores the signed-in user's coordinates. The reverse
// geocoding lookup is best-effort: on failure the coordinates are stored
// without a place name.
func (s *UserService) UpdateLocation(userID string, lat, lng float64) (*models.User, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	user.Latitude = &lat
	user.Longitude = &lng
	if s.geocoder != nil {
		name, err := s.geocoder.LocationName(lat, lng)
		if err != nil {
			log.Printf("Reverse geocoding failed for user %s: %v", userID, err)
		} else if name != "" {
			user.LocationName = name
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// NearbyUsers returns users with stored coordinates within radiusKm of the
// origin, closest first.
func (s *UserService) NearbyUsers(origin geo.Coordinates, radiusKm float64) ([]NearbyUser, error) {
	users, err := s.userRepo.GetWithLocation()
	if err != nil {
		return nil, err
	}

	var nearby []NearbyUser
	for _, u := range users {
		d := geo.Distance(origin, geo.Coordinates{Latitude: *u.Latitude, Longitude: *u.Longitude})
		if d <= radiusKm {
			nearby = append(nearby, NearbyUser{User: u, DistanceKm: d})
		}
	}
	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}

// EnsureProfile provisions a profile row on first authenticated session.
// The candidate username is derived from the email local part plus a
// time-based and a random suffix; a uniqueness collision regenerates the
// suffixes and retries, up to maxUsernameAttempts. Any other insert failure
// is not retried.
func (s *UserService) EnsureProfile(userID, email, avatarURL string) (*models.User, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	existing, err := s.userRepo.GetByID(userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	base := usernameBase(email)
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		user := &models.User{
			ID:        userID,
			Email:     email,
			Username:  generateUsername(base),
			AvatarURL: avatarURL,
		}
		err = s.userRepo.Create(user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			log.Printf("Error creating profile for user %s: %v", userID, err)
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		// Collision: fall through and try a fresh candidate.
	}
	return nil, fmt.Errorf("could not assign a unique username after %d attempts: %w", maxUsernameAttempts, ErrUsernameTaken)
}

// usernameBase extracts the email local part, stripped to the username
// charset and truncated so the full candidate fits the column. Anonymous
// sessions without an email (or local parts with nothing usable) fall back
// to "user".
func usernameBase(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = usernameBaseStrip.ReplaceAllString(local, "")
	if len(local) > maxUsernameBaseLen {
		local = local[:maxUsernameBaseLen]
	}
	if local == "" {
		return "user"
	}
	return local
}

// generateUsername builds a candidate of the form
// <base>_<4 digits>_<4 alphanumerics>.
func generateUsername(base string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return fmt.Sprintf("%s_%s_%s", base, ts[len(ts)-4:], randomSuffix(4))
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}
