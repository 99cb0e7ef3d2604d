package handlers

import (
	"log"

	"geckoland/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and first-login
// profile provisioning.
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
// authRequired protects the session-bound routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/anonymous", h.HandleAnonymousSignIn)
	authRoutes.Get("/me", authRequired, h.HandleMe)
	authRoutes.Post("/logout", authRequired, h.HandleLogout)
}

// AnonymousSignInRequest optionally carries identity hints from an upstream
// OAuth callback; both fields may be empty for a fully anonymous session.
type AnonymousSignInRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

// HandleAnonymousSignIn mints a session and provisions the profile row.
// Provisioning generates a unique username, retrying on collisions.
func (h *AuthHandler) HandleAnonymousSignIn(c *fiber.Ctx) error {
	var req AnonymousSignInRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			log.Printf("Error parsing sign-in request body: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
				"error":   err.Error(),
			})
		}
		if err := h.validate.Struct(req); err != nil {
			return respondValidationErrors(c, err)
		}
	}

	token, userID, err := h.authService.SignInAnonymously()
	if err != nil {
		log.Printf("Error creating anonymous session: %v", err)
		return respondError(c, "Could not sign in", err)
	}

	user, err := h.userService.EnsureProfile(userID, req.Email, req.AvatarURL)
	if err != nil {
		log.Printf("Error provisioning profile for user %s: %v", userID, err)
		return respondError(c, "Could not provision profile", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Signed in",
		"token":   token,
		"user":    user,
	})
}

// HandleMe returns the signed-in user's profile together with their feed
// count.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := h.userService.GetCurrentUser(userID)
	if err != nil {
		log.Printf("Error fetching profile for user %s: %v", userID, err)
		return respondError(c, "Could not fetch profile", err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No profile for this session",
		})
	}

	count, err := h.userService.GetUserFeedsCount(userID)
	if err != nil {
		log.Printf("Error counting feeds for user %s: %v", userID, err)
		return respondError(c, "Could not count feeds", err)
	}

	return c.JSON(fiber.Map{
		"user":        user,
		"feeds_count": count,
	})
}

// HandleLogout acknowledges sign-out. Sessions are stateless JWTs, so the
// client simply discards its token.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Signed out",
	})
}
