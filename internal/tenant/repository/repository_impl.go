package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
	"github.com/smallbiznis/shopkeeper/internal/tenant/domain"
	"github.com/smallbiznis/shopkeeper/pkg/db"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

// New returns the gorm-backed tenant directory.
func New(dbConn *gorm.DB) domain.Repository {
	return &repo{db: dbConn}
}

func (r *repo) LookupByDomain(ctx context.Context, normalizedHost string) (*domain.Snapshot, error) {
	var binding domain.TenantDomain
	err := r.db.WithContext(ctx).
		Where("domain = ?", normalizedHost).
		First(&binding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var tenant domain.Tenant
	err = r.db.WithContext(ctx).
		Where("id = ?", binding.TenantID).
		First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Orphaned binding; indistinguishable from an unknown host.
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	flags, err := r.LookupFlags(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}

	return &domain.Snapshot{Tenant: tenant, Domain: binding, Flags: flags}, nil
}

func (r *repo) LookupFlags(ctx context.Context, tenantID snowflake.ID) (featuredomain.FlagSet, error) {
	var row domain.TenantFeatureFlags
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A tenant without a flags row has no entitlements.
		return featuredomain.FlagSet{}, nil
	}
	if err != nil {
		return featuredomain.FlagSet{}, err
	}
	return row.FlagSet(), nil
}

func (r *repo) CreateTenant(ctx context.Context, tenant *domain.Tenant, flags *domain.TenantFeatureFlags) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrSlugTaken
			}
			return err
		}
		return tx.Create(flags).Error
	})
}

func (r *repo) FindTenantByID(ctx context.Context, id snowflake.ID) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *repo) UpdateTenantStatus(ctx context.Context, id snowflake.ID, status domain.Status, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": updatedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *repo) CreateDomain(ctx context.Context, binding *domain.TenantDomain) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if binding.IsPrimary {
			err := tx.Model(&domain.TenantDomain{}).
				Where("tenant_id = ?", binding.TenantID).
				Update("is_primary", false).Error
			if err != nil {
				return err
			}
		}
		if err := tx.Create(binding).Error; err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDomainTaken
			}
			return err
		}
		return nil
	})
}

func (r *repo) ListDomains(ctx context.Context, tenantID snowflake.ID) ([]domain.TenantDomain, error) {
	var bindings []domain.TenantDomain
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at asc").
		Find(&bindings).Error
	if err != nil {
		return nil, err
	}
	return bindings, nil
}

func (r *repo) UpdateFlags(ctx context.Context, flags *domain.TenantFeatureFlags) error {
	result := r.db.WithContext(ctx).
		Model(&domain.TenantFeatureFlags{}).
		Where("tenant_id = ?", flags.TenantID).
		Updates(map[string]any{
			"ecommerce_enabled":   flags.Ecommerce,
			"wishlist_enabled":    flags.Wishlist,
			"repairs_enabled":     flags.Repairs,
			"quote_on_request":    flags.QuoteOnRequest,
			"tickets_enabled":     flags.Tickets,
			"live_chat_widget":    flags.LiveChat,
			"invoicing_enabled":   flags.Invoicing,
			"vat_calculation":     flags.VATCalculation,
			"inventory_enabled":   flags.Inventory,
			"advanced_inventory":  flags.AdvancedInventory,
			"employee_management": flags.EmployeeManagement,
			"max_admin_users":     flags.MaxAdminUsers,
			"updated_at":          flags.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.db.WithContext(ctx).Create(flags).Error
	}
	return nil
}
