package repository

import (
	"context"

	"printsaarthi/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.OrderRecord) error
	ListByCustomer(ctx context.Context, customerID string) ([]*model.OrderRecord, error)
	FindByID(ctx context.Context, id string) (*model.OrderRecord, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.OrderRecord) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) ListByCustomer(ctx context.Context, customerID string) ([]*model.OrderRecord, error) {
	var orders []*model.OrderRecord
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at asc").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) FindByID(ctx context.Context, id string) (*model.OrderRecord, error) {
	var order model.OrderRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}
