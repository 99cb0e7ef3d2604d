package handlers

import (
	"log"

	"geckoland/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CommentHandler handles HTTP requests for comments. Routes are nested
// under the owning feed so mutations can invalidate that feed's cached
// comment list and detail view.
type CommentHandler struct {
	store    *store.FeedStore
	validate *validator.Validate
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(feedStore *store.FeedStore) *CommentHandler {
	return &CommentHandler{
		store:    feedStore,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the comment routes with the Fiber app.
func (h *CommentHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	commentRoutes := router.Group("/feeds/:feedId/comments")
	commentRoutes.Get("/", h.HandleGetComments)
	commentRoutes.Post("/", authRequired, h.HandleCreateComment)
	commentRoutes.Put("/:id", authRequired, h.HandleUpdateComment)
	commentRoutes.Delete("/:id", authRequired, h.HandleDeleteComment)
}

// CommentRequest is the request body for creating or editing a comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// HandleGetComments returns a feed's comments, oldest first.
func (h *CommentHandler) HandleGetComments(c *fiber.Ctx) error {
	feedID := c.Params("feedId")
	comments, err := h.store.Comments(feedID)
	if err != nil {
		log.Printf("Error getting comments for feed %s: %v", feedID, err)
		return respondError(c, "Could not retrieve comments", err)
	}
	return c.JSON(comments)
}

// HandleCreateComment attaches a new comment to the feed.
func (h *CommentHandler) HandleCreateComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create comment request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	feedID := c.Params("feedId")
	comment, err := h.store.CreateComment(feedID, currentUserID(c), req.Content)
	if err != nil {
		log.Printf("Error creating comment on feed %s: %v", feedID, err)
		return respondError(c, "Could not create comment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// HandleUpdateComment replaces a comment's content.
func (h *CommentHandler) HandleUpdateComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update comment request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	feedID := c.Params("feedId")
	commentID := c.Params("id")
	comment, err := h.store.UpdateComment(feedID, commentID, currentUserID(c), req.Content)
	if err != nil {
		log.Printf("Error updating comment %s: %v", commentID, err)
		return respondError(c, "Could not update comment", err)
	}
	return c.JSON(comment)
}

// HandleDeleteComment removes a comment.
func (h *CommentHandler) HandleDeleteComment(c *fiber.Ctx) error {
	feedID := c.Params("feedId")
	commentID := c.Params("id")
	if err := h.store.DeleteComment(feedID, commentID, currentUserID(c)); err != nil {
		log.Printf("Error deleting comment %s: %v", commentID, err)
		return respondError(c, "Could not delete comment", err)
	}
	return c.JSON(fiber.Map{
		"message": "Comment deleted",
	})
}
