package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Product struct {
	ID          snowflake.ID      `json:"id" gorm:"primaryKey"`
	TenantID    snowflake.ID      `json:"tenant_id" gorm:"column:tenant_id;not null;index:ux_products_tenant_sku,priority:1"`
	SKU         string            `json:"sku" gorm:"column:sku;type:text;not null;index:ux_products_tenant_sku,priority:2"`
	Name        string            `json:"name" gorm:"type:text;not null"`
	Description *string           `json:"description,omitempty" gorm:"type:text"`
	PriceCents  int64             `json:"price_cents" gorm:"column:price_cents;not null;default:0"`
	Stock       int               `json:"stock" gorm:"not null;default:0"`
	Active      bool              `json:"active" gorm:"not null;default:true"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }
