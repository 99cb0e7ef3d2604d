package handlers

import (
	"log"

	"geckoland/internal/services"
	"geckoland/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FeedHandler handles HTTP requests for feeds. Reads go through the feed
// store so repeated fetches are served from the query cache; mutations go
// through the store's wrappers so the invalidation rules run.
type FeedHandler struct {
	store    *store.FeedStore
	validate *validator.Validate
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(feedStore *store.FeedStore) *FeedHandler {
	return &FeedHandler{
		store:    feedStore,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the feed routes with the Fiber app.
func (h *FeedHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	feedRoutes := router.Group("/feeds")
	feedRoutes.Get("/", h.HandleGetFeeds)
	feedRoutes.Get("/:id", h.HandleGetFeedByID)
	feedRoutes.Post("/", authRequired, h.HandleCreateFeed)
	feedRoutes.Put("/:id", authRequired, h.HandleUpdateFeed)
	feedRoutes.Delete("/:id", authRequired, h.HandleDeleteFeed)
	feedRoutes.Post("/:id/like", authRequired, h.HandleLikeFeed)
	feedRoutes.Delete("/:id/like", authRequired, h.HandleUnlikeFeed)
}

// CreateFeedRequest is the request body for creating a feed.
type CreateFeedRequest struct {
	Contents string   `json:"contents" validate:"required,max=2000"`
	Images   []string `json:"images" validate:"omitempty,max=10"`
	Emojis   []string `json:"emojies"`
}

// UpdateFeedRequest is the request body for editing a feed. Absent fields
// are left untouched.
type UpdateFeedRequest struct {
	Contents *string   `json:"contents" validate:"omitempty,max=2000"`
	Images   *[]string `json:"images" validate:"omitempty,max=10"`
	Emojis   *[]string `json:"emojies"`
}

// HandleGetFeeds returns all feeds, newest first, with derived counts.
func (h *FeedHandler) HandleGetFeeds(c *fiber.Ctx) error {
	feeds, err := h.store.Feeds()
	if err != nil {
		log.Printf("Error getting feeds: %v", err)
		return respondError(c, "Could not retrieve feeds", err)
	}
	return c.JSON(feeds)
}

// HandleGetFeedByID returns a single feed's detail view.
func (h *FeedHandler) HandleGetFeedByID(c *fiber.Ctx) error {
	feedID := c.Params("id")
	feed, err := h.store.Feed(feedID)
	if err != nil {
		log.Printf("Error getting feed %s: %v", feedID, err)
		return respondError(c, "Could not retrieve feed", err)
	}
	return c.JSON(feed)
}

// HandleCreateFeed creates a new feed owned by the signed-in user.
func (h *FeedHandler) HandleCreateFeed(c *fiber.Ctx) error {
	var req CreateFeedRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create feed request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	feed, err := h.store.CreateFeed(currentUserID(c), req.Contents, req.Images, req.Emojis)
	if err != nil {
		log.Printf("Error creating feed: %v", err)
		return respondError(c, "Could not create feed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(feed)
}

// HandleUpdateFeed applies a partial edit to a feed.
func (h *FeedHandler) HandleUpdateFeed(c *fiber.Ctx) error {
	var req UpdateFeedRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update feed request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	feedID := c.Params("id")
	feed, err := h.store.UpdateFeed(feedID, currentUserID(c), services.FeedUpdate{
		Contents: req.Contents,
		Images:   req.Images,
		Emojis:   req.Emojis,
	})
	if err != nil {
		log.Printf("Error updating feed %s: %v", feedID, err)
		return respondError(c, "Could not update feed", err)
	}
	return c.JSON(feed)
}

// HandleDeleteFeed removes a feed.
func (h *FeedHandler) HandleDeleteFeed(c *fiber.Ctx) error {
	feedID := c.Params("id")
	if err := h.store.DeleteFeed(feedID, currentUserID(c)); err != nil {
		log.Printf("Error deleting feed %s: %v", feedID, err)
		return respondError(c, "Could not delete feed", err)
	}
	return c.JSON(fiber.Map{
		"message": "Feed deleted",
	})
}

// HandleLikeFeed adds the signed-in user to the feed's likes. Liking an
// already-liked feed succeeds without writing.
func (h *FeedHandler) HandleLikeFeed(c *fiber.Ctx) error {
	feedID := c.Params("id")
	if err := h.store.Like(feedID, currentUserID(c)); err != nil {
		log.Printf("Error liking feed %s: %v", feedID, err)
		return respondError(c, "Could not like feed", err)
	}
	return c.JSON(fiber.Map{
		"message": "Feed liked",
	})
}

// HandleUnlikeFeed removes the signed-in user from the feed's likes.
func (h *FeedHandler) HandleUnlikeFeed(c *fiber.Ctx) error {
	feedID := c.Params("id")
	if err := h.store.Unlike(feedID, currentUserID(c)); err != nil {
		log.Printf("Error unliking feed %s: %v", feedID, err)
		return respondError(c, "Could not unlike feed", err)
	}
	return c.JSON(fiber.Map{
		"message": "Feed unliked",
	})
}
