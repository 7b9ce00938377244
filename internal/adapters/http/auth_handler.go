package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benedevries-code/lea-kalender/internal/application/services"
	"github.com/benedevries-code/lea-kalender/internal/domain/entities"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/logger"
)

// AuthHandler handles the /auth endpoint, which multiplexes password
// checks, the audit log and set/verify over one route.
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// AuthRequest is the set-or-verify body.
type AuthRequest struct {
	Name        string `json:"name"`
	Password    string `json:"password"`
	IsFirstTime bool   `json:"isFirstTime"`
}

// Get answers ?name=X with {hasPassword} and ?action=logins with the
// audit log, oldest first.
func (h *AuthHandler) Get(c echo.Context) error {
	if c.QueryParam("action") == "logins" {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"logins": h.authService.Logins(c.Request().Context()),
		})
	}

	name := c.QueryParam("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name erforderlich"})
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"hasPassword": h.authService.HasPassword(c.Request().Context(), name),
	})
}

// Post sets a password on first-time setup or verifies it on login.
func (h *AuthHandler) Post(c echo.Context) error {
	var req AuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if req.Name == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name und Passwort erforderlich"})
	}

	ctx := c.Request().Context()

	if req.IsFirstTime {
		err := h.authService.SetPassword(ctx, req.Name, req.Password)
		switch {
		case errors.Is(err, entities.ErrPasswordAlreadySet):
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error":   "Passwort bereits gesetzt",
				"success": false,
			})
		case err != nil:
			h.logger.Error("Password set failed", "error", err, "name", req.Name)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Fehler beim Speichern"})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Passwort gesetzt",
		})
	}

	token, err := h.authService.Verify(ctx, req.Name, req.Password)
	switch {
	case errors.Is(err, entities.ErrNoPasswordSet):
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":      "Kein Passwort gesetzt",
			"needsSetup": true,
		})
	case errors.Is(err, entities.ErrWrongPassword):
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "Falsches Passwort",
			"success": false,
		})
	case err != nil:
		h.logger.Error("Login failed", "error", err, "name", req.Name)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Fehler beim Speichern"})
	}

	response := map[string]interface{}{
		"success": true,
		"message": "Login erfolgreich",
	}
	if token != "" {
		response["token"] = token
	}
	return c.JSON(http.StatusOK, response)
}
