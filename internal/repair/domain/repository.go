package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, ticket *RepairTicket) error
	ListByTenant(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]RepairTicket, error)
}
