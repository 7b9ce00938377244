package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/benedevries-code/lea-kalender/internal/application/services"
	"github.com/benedevries-code/lea-kalender/internal/domain/entities"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/logger"
	"github.com/benedevries-code/lea-kalender/internal/ports"
)

// CalendarHandler handles the shared record and the admin operations.
type CalendarHandler struct {
	calendarService *services.CalendarService
	authService     *services.AuthService
	logger          *logger.Logger
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(calendarService *services.CalendarService, authService *services.AuthService, logger *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		authService:     authService,
		logger:          logger,
	}
}

// GetData returns the whole record, default-empty shape if absent.
func (h *CalendarHandler) GetData(c echo.Context) error {
	record := h.calendarService.GetRecord(c.Request().Context())
	return c.JSON(http.StatusOK, record)
}

// PostData replaces the whole record. Last POST wins in full.
func (h *CalendarHandler) PostData(c echo.Context) error {
	var record entities.CalendarRecord
	if err := c.Bind(&record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if !h.calendarService.ReplaceRecord(c.Request().Context(), &record) {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Failed to save",
		})
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// ToggleDateRequest flags or unflags one day as needing coverage.
type ToggleDateRequest struct {
	Date string `json:"date" validate:"required"`
}

// ToggleDate adds the date if absent, removes it if present.
func (h *CalendarHandler) ToggleDate(c echo.Context) error {
	var req ToggleDateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.calendarService.ToggleDate(c.Request().Context(), req.Date)
	if err != nil {
		return h.mutationError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// UpsertLeaRequest replaces the help request for its date.
func (h *CalendarHandler) UpsertLeaRequest(c echo.Context) error {
	var req entities.LeaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}

	record, err := h.calendarService.UpsertLeaRequest(c.Request().Context(), req)
	if err != nil {
		return h.mutationError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// AddBetreuungEntry appends a coverage offer.
func (h *CalendarHandler) AddBetreuungEntry(c echo.Context) error {
	var entry entities.BetreuungEntry
	if err := c.Bind(&entry); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if entry.Date == "" || entry.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date and name are required")
	}

	record, err := h.calendarService.AddBetreuungEntry(c.Request().Context(), entry)
	if err != nil {
		return h.mutationError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// AddParticipant appends an availability submission.
func (h *CalendarHandler) AddParticipant(c echo.Context) error {
	var submission ports.ParticipantSubmission
	if err := c.Bind(&submission); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&submission); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.calendarService.AddParticipant(c.Request().Context(), submission)
	if err != nil {
		return h.mutationError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// ClaimRequest assigns or releases a helper on a help request.
type ClaimRequest struct {
	Date   string `json:"date" validate:"required"`
	Helper string `json:"helper" validate:"required"`
}

// ClaimHelper toggles the helper claim for a date. First claim wins.
func (h *CalendarHandler) ClaimHelper(c echo.Context) error {
	var req ClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.calendarService.ClaimHelper(c.Request().Context(), req.Date, req.Helper)
	if err != nil {
		if errors.Is(err, entities.ErrRequestNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return h.mutationError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// Reset clears the record to the empty shape.
func (h *CalendarHandler) Reset(c echo.Context) error {
	if !h.calendarService.Reset(c.Request().Context()) {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Failed to reset",
		})
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Kalender geleert"})
}

// ResetAll clears the record and the credential store.
func (h *CalendarHandler) ResetAll(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.calendarService.Reset(ctx) || !h.authService.ResetCredentials(ctx) {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Failed to reset",
		})
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Alle Daten und Passwoerter geloescht!"})
}

// Cleanup removes one person's entries and claims. The name comes from
// the query parameter, defaulting to the configured target.
func (h *CalendarHandler) Cleanup(c echo.Context) error {
	result, err := h.calendarService.Cleanup(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return h.mutationError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

func (h *CalendarHandler) mutationError(c echo.Context, err error) error {
	if errors.Is(err, entities.ErrStoreUnavailable) {
		h.logger.Error("Record save failed", "error", err, "path", c.Request().URL.Path)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Failed to save",
		})
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

// SuccessResponse is the minimal mutation acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
