package orders

import (
	"context"

	"github.com/electronicmusicbook/temb-backend/pkg/db/models"
	"github.com/electronicmusicbook/temb-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the orders table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByStatus(ctx context.Context, status enums.OrderStatus) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context, status *enums.OrderStatus) (int64, error)
}
