package services_test

import (
	"testing"

	"geckoland/internal/models"
	"geckoland/internal/repositories"
	"geckoland/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCommentService(commentRepo *mockCommentRepo, feedRepo *mockFeedRepo, userRepo *mockUserRepo, publisher services.EventPublisher) *services.CommentService {
	if feedRepo == nil {
		feedRepo = new(mockFeedRepo)
	}
	if userRepo == nil {
		userRepo = new(mockUserRepo)
	}
	return services.NewCommentService(commentRepo, feedRepo, userRepo, publisher)
}

func TestCreateCommentRequiresExistingFeed(t *testing.T) {
	commentRepo := new(mockCommentRepo)
	feedRepo := new(mockFeedRepo)
	feedRepo.On("GetByID", "nope").Return(nil, repositories.ErrNotFound)

	svc := newCommentService(commentRepo, feedRepo, nil, nil)
	_, err := svc.CreateComment("nope", "u1", "hello")

	assert.ErrorIs(t, err, repositories.ErrNotFound)
	commentRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateCommentPublishesEvent(t *testing.T) {
	commentRepo := new(mockCommentRepo)
	commentRepo.On("Create", mock.Anything).Return(nil)
	feedRepo := new(mockFeedRepo)
	feedRepo.On("GetByID", "f1").Return(&models.Feed{ID: "f1"}, nil)
	publisher := new(mockPublisher)
	publisher.On("Publish", "feed", "comment.created", mock.Anything).Return(nil)

	svc := newCommentService(commentRepo, feedRepo, nil, publisher)
	comment, err := svc.CreateComment("f1", "u1", "hello")

	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, "f1", comment.FeedID)
	assert.Equal(t, "u1", comment.UserID)
	assert.Equal(t, "hello", comment.Content)
	publisher.AssertExpectations(t)
}

func TestCreateCommentUnauthenticated(t *testing.T) {
	svc := newCommentService(new(mockCommentRepo), nil, nil, nil)
	_, err := svc.CreateComment("f1", "", "hello")
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestGetCommentsByFeedAnnotatesAuthors(t *testing.T) {
	commentRepo := new(mockCommentRepo)
	commentRepo.On("GetByFeedID", "f1").Return([]models.Comment{
		{ID: "c1", FeedID: "f1", UserID: "u1", Content: "first"},
		{ID: "c2", FeedID: "f1", UserID: "u2", Content: "second"},
	}, nil)
	userRepo := new(mockUserRepo)
	userRepo.On("GetByID", "u1").Return(&models.User{ID: "u1", Username: "alice"}, nil)
	userRepo.On("GetByID", "u2").Return(&models.User{ID: "u2", Username: "bob"}, nil)

	svc := newCommentService(commentRepo, nil, userRepo, nil)
	comments, err := svc.GetCommentsByFeed("f1")

	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "alice", comments[0].User.Username)
	assert.Equal(t, "bob", comments[1].User.Username)
}

func TestUpdateCommentReplacesContent(t *testing.T) {
	commentRepo := new(mockCommentRepo)
	commentRepo.On("GetByID", "c1").Return(&models.Comment{ID: "c1", UserID: "u1", Content: "old"}, nil)
	commentRepo.On("Update", mock.Anything).Return(nil)

	svc := newCommentService(commentRepo, nil, nil, nil)
	comment, err := svc.UpdateComment("c1", "u1", "new")

	require.NoError(t, err)
	assert.Equal(t, "new", comment.Content)
}

func TestUpdateCommentRejectsNonAuthor(t *testing.T) {
	commentRepo := new(mockCommentRepo)
	commentRepo.On("GetByID", "c1").Return(&models.Comment{ID: "c1", UserID: "author", Content: "old"}, nil)

	svc := newCommentService(commentRepo, nil, nil, nil)
	_, err := svc.UpdateComment("c1", "intruder", "new")

	assert.ErrorIs(t, err, services.ErrForbidden)
	commentRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestDeleteCommentByAuthor(t *testing.T) {
	commentRepo := new(mockCommentRepo)
	commentRepo.On("GetByID", "c1").Return(&models.Comment{ID: "c1", UserID: "u1"}, nil)
	commentRepo.On("Delete", "c1").Return(nil)

	svc := newCommentService(commentRepo, nil, nil, nil)
	require.NoError(t, svc.DeleteComment("c1", "u1"))

	commentRepo.AssertExpectations(t)
}

func TestDeleteCommentRejectsNonAuthor(t *testing.T) {
	commentRepo := new(mockCommentRepo)
	commentRepo.On("GetByID", "c1").Return(&models.Comment{ID: "c1", UserID: "author"}, nil)

	svc := newCommentService(commentRepo, nil, nil, nil)
	err := svc.DeleteComment("c1", "intruder")

	assert.ErrorIs(t, err, services.ErrForbidden)
	commentRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestDeleteCommentUnauthenticated(t *testing.T) {
	commentRepo := new(mockCommentRepo)
	svc := newCommentService(commentRepo, nil, nil, nil)

	assert.ErrorIs(t, svc.DeleteComment("c1", ""), services.ErrUnauthenticated)
	commentRepo.AssertNotCalled(t, "Delete", mock.Anything)
}
