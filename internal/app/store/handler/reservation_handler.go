package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/service"
	"carshine/pkg/logger"
)

type ReservationHandler struct {
	reservationService service.ReservationServiceInterface
}

func NewReservationHandler(reservationService service.ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// CreateReservation accepts a booking from the public widget. It always
// answers 201 once the submission validates; relay trouble surfaces
// only as n8nStatus "pending".
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req entity.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid request body")
		return
	}

	resp, err := h.reservationService.CreateReservation(c.Request.Context(), &req)
	if err != nil {
		var validationErr *service.ReservationValidationError
		if errors.As(err, &validationErr) {
			respondError(c, http.StatusBadRequest, entity.CodeValidation, validationErr.Error())
			return
		}
		logger.Error().Err(err).Msg("failed to create reservation")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to create reservation")
		return
	}

	respondData(c, http.StatusCreated, resp)
}

// ListReservations is the admin view of recent bookings. Bookings are
// relayed, not stored, so the listing covers this process only.
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	records, err := h.reservationService.ListReservations(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("failed to list reservations")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get reservations")
		return
	}

	respondData(c, http.StatusOK, records)
}
