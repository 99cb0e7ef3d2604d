package handlers

import (
	"log"

	"geckoland/internal/geo"
	"geckoland/internal/services"
	"geckoland/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user profiles. Profile queries are
// served directly from the user service; only feed queries go through the
// cache.
type UserHandler struct {
	userService *services.UserService
	store       *store.FeedStore
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, feedStore *store.FeedStore) *UserHandler {
	return &UserHandler{
		userService: userService,
		store:       feedStore,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/nearby", authRequired, h.HandleNearbyUsers)
	userRoutes.Get("/by-username/:username", h.HandleGetUserByUsername)
	userRoutes.Patch("/me", authRequired, h.HandleUpdateProfile)
	userRoutes.Put("/me/location", authRequired, h.HandleUpdateLocation)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Get("/:id/feeds", h.HandleGetUserFeeds)
	userRoutes.Get("/:id/feeds/count", h.HandleGetUserFeedsCount)
}

// UpdateProfileRequest is the request body for a partial profile edit.
type UpdateProfileRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=20"`
	FullName    *string `json:"full_name" validate:"omitempty,max=100"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
	Tag         *string `json:"tag" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// UpdateLocationRequest is the request body for sharing coordinates.
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// HandleGetUserByUsername looks a user up by username. A missing user is a
// plain 404, not a server error.
func (h *UserHandler) HandleGetUserByUsername(c *fiber.Ctx) error {
	username := c.Params("username")
	user, err := h.userService.GetUserByUsername(username)
	if err != nil {
		log.Printf("Error getting user by username %s: %v", username, err)
		return respondError(c, "Could not retrieve user", err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
		})
	}
	return c.JSON(user)
}

// HandleGetUserByID returns a user's public profile.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	userID := c.Params("id")
	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		log.Printf("Error getting user %s: %v", userID, err)
		return respondError(c, "Could not retrieve user", err)
	}
	return c.JSON(user)
}

// HandleGetUserFeeds returns a user's feeds, newest first.
func (h *UserHandler) HandleGetUserFeeds(c *fiber.Ctx) error {
	userID := c.Params("id")
	feeds, err := h.store.UserFeeds(userID)
	if err != nil {
		log.Printf("Error getting feeds for user %s: %v", userID, err)
		return respondError(c, "Could not retrieve user feeds", err)
	}
	return c.JSON(feeds)
}

// HandleGetUserFeedsCount returns how many feeds a user has posted.
func (h *UserHandler) HandleGetUserFeedsCount(c *fiber.Ctx) error {
	userID := c.Params("id")
	count, err := h.userService.GetUserFeedsCount(userID)
	if err != nil {
		log.Printf("Error counting feeds for user %s: %v", userID, err)
		return respondError(c, "Could not count user feeds", err)
	}
	return c.JSON(fiber.Map{
		"count": count,
	})
}

// HandleUpdateProfile applies a partial edit to the signed-in user's
// profile. A username collision comes back as a 409 for the user to
// correct.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update profile request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user, err := h.userService.UpdateProfile(currentUserID(c), services.ProfileUpdate{
		Username:    req.Username,
		FullName:    req.FullName,
		AvatarURL:   req.AvatarURL,
		Tag:         req.Tag,
		Description: req.Description,
	})
	if err != nil {
		log.Printf("Error updating profile: %v", err)
		return respondError(c, "Could not update profile", err)
	}
	return c.JSON(user)
}

// HandleUpdateLocation stores the signed-in user's coordinates, resolving a
// place name best-effort.
func (h *UserHandler) HandleUpdateLocation(c *fiber.Ctx) error {
	var req UpdateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update location request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user, err := h.userService.UpdateLocation(currentUserID(c), req.Latitude, req.Longitude)
	if err != nil {
		log.Printf("Error updating location: %v", err)
		return respondError(c, "Could not update location", err)
	}
	return c.JSON(user)
}

// HandleNearbyUsers returns users with shared coordinates within radius_km
// of the given point, closest first.
func (h *UserHandler) HandleNearbyUsers(c *fiber.Ctx) error {
	lat := c.QueryFloat("latitude")
	lng := c.QueryFloat("longitude")
	radius := c.QueryFloat("radius_km", 10)

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 || radius <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid coordinates or radius",
		})
	}

	nearby, err := h.userService.NearbyUsers(geo.Coordinates{Latitude: lat, Longitude: lng}, radius)
	if err != nil {
		log.Printf("Error searching nearby users: %v", err)
		return respondError(c, "Could not search nearby users", err)
	}
	return c.JSON(nearby)
}
