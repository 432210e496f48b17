package repository

import (
	"context"

	"carshine/internal/app/store/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository creates the order item repository. Items are
// written through the order transaction; this repository only reads.
func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	result := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&items)

	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}
