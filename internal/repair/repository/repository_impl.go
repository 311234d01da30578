package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopkeeper/internal/repair/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, ticket *domain.RepairTicket) error {
	return db.WithContext(ctx).Create(ticket).Error
}

func (r *repo) ListByTenant(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]domain.RepairTicket, error) {
	var tickets []domain.RepairTicket
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at desc").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}
