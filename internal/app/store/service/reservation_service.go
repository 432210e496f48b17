package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/infrastructure"
	"carshine/pkg/logger"
	"carshine/pkg/metrics"
)

// ReservationValidationError aggregates every missing field class into
// one message so the booking widget can surface them together.
type ReservationValidationError struct {
	Missing []string
}

func (e *ReservationValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// recentReservationsLimit bounds the in-memory listing window.
const recentReservationsLimit = 100

// ReservationService accepts detailing bookings and relays them to the
// n8n workflow webhook. A booking is never lost to a relay outage: the
// widget always gets a 201 with either the downstream id or a local
// fallback id plus a pending status.
//
// Bookings live downstream; the service only keeps a bounded in-memory
// window of recent submissions for the admin listing, gone on restart.
type ReservationService struct {
	relay infrastructure.ReservationRelay

	mu     sync.Mutex
	recent []entity.ReservationRecord
}

// NewReservationService creates the reservation service.
func NewReservationService(relay infrastructure.ReservationRelay) *ReservationService {
	return &ReservationService{relay: relay}
}

// CreateReservation validates, normalizes and relays one booking.
func (s *ReservationService) CreateReservation(ctx context.Context, req *entity.CreateReservationRequest) (*entity.ReservationResponse, error) {
	if err := validateReservation(req); err != nil {
		return nil, err
	}

	payload := normalizeReservation(req)

	reservationID, err := s.relay.Deliver(ctx, payload)
	if err != nil || reservationID == "" {
		if err != nil {
			logger.Error().Err(err).
				Str("email", payload.Email).
				Msg("reservation relay failed, returning pending")
		}
		metrics.ReservationsRelayed.WithLabelValues(entity.RelayStatusPending).Inc()
		resp := &entity.ReservationResponse{
			ReservationID: fallbackReservationID(),
			N8nStatus:     entity.RelayStatusPending,
		}
		s.record(resp, payload)
		return resp, nil
	}

	metrics.ReservationsRelayed.WithLabelValues(entity.RelayStatusSent).Inc()

	resp := &entity.ReservationResponse{
		ReservationID: reservationID,
		N8nStatus:     entity.RelayStatusSent,
	}
	s.record(resp, payload)

	return resp, nil
}

// ListReservations returns the recent bookings this process accepted,
// newest first.
func (s *ReservationService) ListReservations(ctx context.Context) ([]entity.ReservationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]entity.ReservationRecord, len(s.recent))
	for i, rec := range s.recent {
		records[len(s.recent)-1-i] = rec
	}

	return records, nil
}

func (s *ReservationService) record(resp *entity.ReservationResponse, payload *entity.ReservationPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = append(s.recent, entity.ReservationRecord{
		ReservationID: resp.ReservationID,
		N8nStatus:     resp.N8nStatus,
		Payload:       *payload,
		ReceivedAt:    time.Now().UTC(),
	})
	if len(s.recent) > recentReservationsLimit {
		s.recent = s.recent[len(s.recent)-recentReservationsLimit:]
	}
}

// validateReservation checks the required groups and reports every
// missing class of field in one message, so the widget user fixes the
// form in one round trip.
func validateReservation(req *entity.CreateReservationRequest) error {
	var missing []string

	if req.Vehicle == "" {
		missing = append(missing, "vehicle")
	}
	if req.SelectedPlan == "" {
		missing = append(missing, "selectedPlan")
	}
	ci := req.ClientInfo
	if ci.Prenom == "" || ci.Nom == "" || ci.Email == "" || ci.Telephone == "" {
		missing = append(missing, "clientInfo")
	}
	if req.SelectedDate == "" {
		missing = append(missing, "selectedDate")
	}
	if req.SelectedTime == "" {
		missing = append(missing, "selectedTime")
	}

	if len(missing) > 0 {
		return &ReservationValidationError{Missing: missing}
	}
	return nil
}

// normalizeReservation flattens the submission into the webhook schema
// and applies defaults for the optional fields.
func normalizeReservation(req *entity.CreateReservationRequest) *entity.ReservationPayload {
	submittedAt := req.SubmittedAt
	if submittedAt == "" {
		submittedAt = time.Now().UTC().Format(time.RFC3339)
	}

	reminder := false
	if req.Reminder != nil {
		reminder = *req.Reminder
	}

	return &entity.ReservationPayload{
		Vehicle:     req.Vehicle,
		Plan:        req.SelectedPlan,
		Prenom:      req.ClientInfo.Prenom,
		Nom:         req.ClientInfo.Nom,
		Email:       req.ClientInfo.Email,
		Telephone:   req.ClientInfo.Telephone,
		Date:        req.SelectedDate,
		Time:        req.SelectedTime,
		Price:       req.Price,
		Comments:    req.Comments,
		Reminder:    reminder,
		SubmittedAt: submittedAt,
	}
}

// fallbackReservationID mints a local id when the downstream system did
// not assign one.
func fallbackReservationID() string {
	return fmt.Sprintf("RES-%d", time.Now().UnixMilli())
}
