package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopkeeper/internal/product/domain"
	"github.com/smallbiznis/shopkeeper/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListRequest) ([]domain.Product, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("tenant_id = ?", tenantID).
		Where("active = ?", true)

	if filter.Name != "" {
		stmt = stmt.Where("name LIKE ?", "%"+filter.Name+"%")
	}

	cursor, err := pagination.DecodeCursor(filter.PageToken)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if cursor.ID != "" {
		afterID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		stmt = stmt.Where("id > ?", afterID)
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	var items []domain.Product
	// Fetch one extra row to detect a further page.
	if err := stmt.Order("id asc").Limit(pageSize + 1).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
