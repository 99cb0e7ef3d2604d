package services_test

import (
	"geckoland/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) Update(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) GetWithLocation() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

type mockFeedRepo struct {
	mock.Mock
}

func (m *mockFeedRepo) GetAll() ([]models.Feed, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Feed), args.Error(1)
}

func (m *mockFeedRepo) GetByID(id string) (*models.Feed, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Feed), args.Error(1)
}

func (m *mockFeedRepo) GetByUserID(userID string) ([]models.Feed, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Feed), args.Error(1)
}

func (m *mockFeedRepo) CountByUserID(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockFeedRepo) Create(feed *models.Feed) error {
	return m.Called(feed).Error(0)
}

func (m *mockFeedRepo) Update(feed *models.Feed) error {
	return m.Called(feed).Error(0)
}

func (m *mockFeedRepo) UpdateLikes(id string, likes []string) error {
	return m.Called(id, likes).Error(0)
}

func (m *mockFeedRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) GetByFeedID(feedID string) ([]models.Comment, error) {
	args := m.Called(feedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *mockCommentRepo) GetByID(id string) (*models.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *mockCommentRepo) CountByFeedID(feedID string) (int64, error) {
	args := m.Called(feedID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCommentRepo) Create(comment *models.Comment) error {
	return m.Called(comment).Error(0)
}

func (m *mockCommentRepo) Update(comment *models.Comment) error {
	return m.Called(comment).Error(0)
}

func (m *mockCommentRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(exchange, routingKey string, body []byte) error {
	return m.Called(exchange, routingKey, body).Error(0)
}

type stubGeocoder struct {
	name string
	err  error
}

func (s *stubGeocoder) LocationName(lat, lng float64) (string, error) {
	return s.name, s.err
}
