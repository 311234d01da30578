// Package domain contains persistence models and contracts for the tenant
// directory.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
	"gorm.io/datatypes"
)

// Status is the tenant lifecycle state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusArchived  Status = "ARCHIVED"
)

// Tenant represents one onboarded shop.
type Tenant struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name         string            `gorm:"type:text;not null" json:"name"`
	Slug         string            `gorm:"type:text;not null;uniqueIndex:ux_tenants_slug" json:"slug"`
	Status       Status            `gorm:"type:text;not null" json:"status"`
	SupportEmail string            `gorm:"type:text;column:support_email" json:"support_email"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }

// TenantDomain binds one hostname to one tenant. The unique index on the
// domain column is what guarantees a host can never resolve ambiguously.
type TenantDomain struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	Domain    string       `gorm:"type:text;not null;uniqueIndex:ux_tenant_domains_domain" json:"domain"`
	IsPrimary bool         `gorm:"column:is_primary;not null;default:false" json:"is_primary"`
	Verified  bool         `gorm:"not null;default:false" json:"verified"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (TenantDomain) TableName() string { return "tenant_domains" }

// TenantFeatureFlags stores the raw entitlements, one row per tenant. Typed
// columns keep the set closed; effective values are never persisted.
type TenantFeatureFlags struct {
	TenantID snowflake.ID `gorm:"primaryKey" json:"tenant_id"`

	Ecommerce          bool `gorm:"column:ecommerce_enabled;not null;default:false" json:"ecommerce_enabled"`
	Wishlist           bool `gorm:"column:wishlist_enabled;not null;default:false" json:"wishlist_enabled"`
	Repairs            bool `gorm:"column:repairs_enabled;not null;default:false" json:"repairs_enabled"`
	QuoteOnRequest     bool `gorm:"column:quote_on_request;not null;default:false" json:"quote_on_request"`
	Tickets            bool `gorm:"column:tickets_enabled;not null;default:false" json:"tickets_enabled"`
	LiveChat           bool `gorm:"column:live_chat_widget;not null;default:false" json:"live_chat_widget"`
	Invoicing          bool `gorm:"column:invoicing_enabled;not null;default:false" json:"invoicing_enabled"`
	VATCalculation     bool `gorm:"column:vat_calculation;not null;default:false" json:"vat_calculation"`
	Inventory          bool `gorm:"column:inventory_enabled;not null;default:false" json:"inventory_enabled"`
	AdvancedInventory  bool `gorm:"column:advanced_inventory;not null;default:false" json:"advanced_inventory"`
	EmployeeManagement bool `gorm:"column:employee_management;not null;default:false" json:"employee_management"`
	MaxAdminUsers      int  `gorm:"column:max_admin_users;not null;default:1" json:"max_admin_users"`

	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TenantFeatureFlags) TableName() string { return "tenant_feature_flags" }

// FlagSet converts the stored row into the domain flag set.
func (f TenantFeatureFlags) FlagSet() featuredomain.FlagSet {
	return featuredomain.FlagSet{
		Ecommerce:          f.Ecommerce,
		Wishlist:           f.Wishlist,
		Repairs:            f.Repairs,
		QuoteOnRequest:     f.QuoteOnRequest,
		Tickets:            f.Tickets,
		LiveChat:           f.LiveChat,
		Invoicing:          f.Invoicing,
		VATCalculation:     f.VATCalculation,
		Inventory:          f.Inventory,
		AdvancedInventory:  f.AdvancedInventory,
		EmployeeManagement: f.EmployeeManagement,
		MaxAdminUsers:      f.MaxAdminUsers,
	}
}

// ApplyFlagSet copies domain flag values back onto the stored row.
func (f *TenantFeatureFlags) ApplyFlagSet(flags featuredomain.FlagSet) {
	f.Ecommerce = flags.Ecommerce
	f.Wishlist = flags.Wishlist
	f.Repairs = flags.Repairs
	f.QuoteOnRequest = flags.QuoteOnRequest
	f.Tickets = flags.Tickets
	f.LiveChat = flags.LiveChat
	f.Invoicing = flags.Invoicing
	f.VATCalculation = flags.VATCalculation
	f.Inventory = flags.Inventory
	f.AdvancedInventory = flags.AdvancedInventory
	f.EmployeeManagement = flags.EmployeeManagement
	f.MaxAdminUsers = flags.MaxAdminUsers
}
