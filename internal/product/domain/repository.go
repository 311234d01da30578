package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListRequest) ([]Product, error)
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Product, error)
}
