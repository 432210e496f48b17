package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carshine/internal/app/store/entity"
	whttp "carshine/internal/app/store/infrastructure/http"

	"github.com/stretchr/testify/assert"
)

func validReservation() *entity.CreateReservationRequest {
	return &entity.CreateReservationRequest{
		Vehicle:      "SUV",
		SelectedPlan: "Premium",
		ClientInfo: entity.ReservationClientInfo{
			Prenom:    "Marie",
			Nom:       "Dubois",
			Email:     "marie.dubois@example.com",
			Telephone: "+33612345678",
		},
		SelectedDate: "2025-07-12",
		SelectedTime: "14:00",
		Price:        89.0,
	}
}

// ===================== Validation Tests =====================

func TestCreateReservation_MissingFieldsAggregated(t *testing.T) {
	// Arrange
	service := NewReservationService(whttp.NewWebhookClient("", "", 1))

	req := validReservation()
	req.Vehicle = ""
	req.SelectedDate = ""
	req.ClientInfo.Email = ""

	// Act
	resp, err := service.CreateReservation(context.Background(), req)

	// Assert: one message naming every missing class.
	assert.Nil(t, resp)
	var validationErr *ReservationValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Error(), "vehicle")
	assert.Contains(t, validationErr.Error(), "clientInfo")
	assert.Contains(t, validationErr.Error(), "selectedDate")
	assert.NotContains(t, validationErr.Error(), "selectedTime")
}

// ===================== Relay Tests =====================

func TestCreateReservation_RelaySuccess(t *testing.T) {
	// Arrange: the workflow endpoint answers with its own booking id.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id": "WF-20250712-042"}`))
	}))
	defer server.Close()

	service := NewReservationService(whttp.NewWebhookClient(server.URL, "", 5))

	// Act
	resp, err := service.CreateReservation(context.Background(), validReservation())

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "WF-20250712-042", resp.ReservationID)
	assert.Equal(t, entity.RelayStatusSent, resp.N8nStatus)
}

func TestCreateReservation_RelayUnreachable(t *testing.T) {
	// Arrange: a closed server so the POST fails outright.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	service := NewReservationService(whttp.NewWebhookClient(server.URL, "", 1))

	// Act
	resp, err := service.CreateReservation(context.Background(), validReservation())

	// Assert: the booking is still accepted with a local fallback id.
	assert.NoError(t, err)
	assert.Equal(t, entity.RelayStatusPending, resp.N8nStatus)
	assert.True(t, strings.HasPrefix(resp.ReservationID, "RES-"))
}

func TestCreateReservation_RelayErrorStatus(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	service := NewReservationService(whttp.NewWebhookClient(server.URL, "", 5))

	// Act
	resp, err := service.CreateReservation(context.Background(), validReservation())

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, entity.RelayStatusPending, resp.N8nStatus)
	assert.True(t, strings.HasPrefix(resp.ReservationID, "RES-"))
}

func TestCreateReservation_NoIDInReply(t *testing.T) {
	// Arrange: a 2xx with no usable body counts as delivered but without
	// a downstream id, so the local fallback id is used.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("accepted"))
	}))
	defer server.Close()

	service := NewReservationService(whttp.NewWebhookClient(server.URL, "", 5))

	// Act
	resp, err := service.CreateReservation(context.Background(), validReservation())

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, entity.RelayStatusPending, resp.N8nStatus)
	assert.True(t, strings.HasPrefix(resp.ReservationID, "RES-"))
}

// ===================== Normalization Tests =====================

func TestNormalizeReservation_Defaults(t *testing.T) {
	// Arrange
	req := validReservation()
	req.Comments = ""
	req.Reminder = nil
	req.SubmittedAt = ""

	// Act
	payload := normalizeReservation(req)

	// Assert
	assert.Equal(t, "", payload.Comments)
	assert.False(t, payload.Reminder)
	assert.NotEmpty(t, payload.SubmittedAt)
	assert.Equal(t, "Premium", payload.Plan)
	assert.Equal(t, "Marie", payload.Prenom)
}

func TestNormalizeReservation_KeepsProvidedValues(t *testing.T) {
	// Arrange
	reminder := true
	req := validReservation()
	req.Comments = "Please call ahead"
	req.Reminder = &reminder
	req.SubmittedAt = "2025-07-10T09:30:00Z"

	// Act
	payload := normalizeReservation(req)

	// Assert
	assert.Equal(t, "Please call ahead", payload.Comments)
	assert.True(t, payload.Reminder)
	assert.Equal(t, "2025-07-10T09:30:00Z", payload.SubmittedAt)
}

// ===================== Listing Tests =====================

func TestListReservations_NewestFirst(t *testing.T) {
	// Arrange: a closed server so every booking records as pending.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	service := NewReservationService(whttp.NewWebhookClient(server.URL, "", 1))
	ctx := context.Background()

	first := validReservation()
	second := validReservation()
	second.Vehicle = "Citadine"

	_, err := service.CreateReservation(ctx, first)
	assert.NoError(t, err)
	_, err = service.CreateReservation(ctx, second)
	assert.NoError(t, err)

	// Act
	records, err := service.ListReservations(ctx)

	// Assert: newest first, carrying payload and relay outcome.
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "Citadine", records[0].Payload.Vehicle)
	assert.Equal(t, "SUV", records[1].Payload.Vehicle)
	assert.Equal(t, entity.RelayStatusPending, records[0].N8nStatus)
	assert.False(t, records[0].ReceivedAt.IsZero())
}

func TestListReservations_WindowBounded(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id": "WF-1"}`))
	}))
	defer server.Close()

	service := NewReservationService(whttp.NewWebhookClient(server.URL, "", 5))
	ctx := context.Background()

	for i := 0; i < recentReservationsLimit+5; i++ {
		_, err := service.CreateReservation(ctx, validReservation())
		assert.NoError(t, err)
	}

	// Act
	records, err := service.ListReservations(ctx)

	// Assert: the window never grows past its bound.
	assert.NoError(t, err)
	assert.Len(t, records, recentReservationsLimit)
}

func TestListReservations_Empty(t *testing.T) {
	// Arrange
	service := NewReservationService(whttp.NewWebhookClient("", "", 1))

	// Act
	records, err := service.ListReservations(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, records)
}
