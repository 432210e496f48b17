package infrastructure

import (
	"context"

	"carshine/internal/app/store/entity"
)

// MessagePublisher publishes domain events; key drives partitioning.
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
}

// ReservationRelay delivers a normalized booking to the workflow
// webhook and returns the downstream booking id.
type ReservationRelay interface {
	Deliver(ctx context.Context, payload *entity.ReservationPayload) (string, error)
}
