// Package domain holds the closed feature-entitlement set and the
// parent/child dependency rules used to derive effective values.
package domain

import "errors"

// Key identifies one entitlement in the closed feature set.
type Key string

const (
	KeyEcommerce          Key = "ecommerceEnabled"
	KeyWishlist           Key = "wishlistEnabled"
	KeyRepairs            Key = "repairsEnabled"
	KeyQuoteOnRequest     Key = "quoteOnRequest"
	KeyTickets            Key = "ticketsEnabled"
	KeyLiveChat           Key = "liveChatWidget"
	KeyInvoicing          Key = "invoicingEnabled"
	KeyVATCalculation     Key = "vatCalculation"
	KeyInventory          Key = "inventoryEnabled"
	KeyAdvancedInventory  Key = "advancedInventory"
	KeyEmployeeManagement Key = "employeeManagement"
)

// BoolKeys lists every boolean entitlement. Numeric entitlements
// (maxAdminUsers) are carried on FlagSet directly and are not gated.
var BoolKeys = []Key{
	KeyEcommerce,
	KeyWishlist,
	KeyRepairs,
	KeyQuoteOnRequest,
	KeyTickets,
	KeyLiveChat,
	KeyInvoicing,
	KeyVATCalculation,
	KeyInventory,
	KeyAdvancedInventory,
	KeyEmployeeManagement,
}

var ErrUnknownKey = errors.New("unknown_feature_key")

// ParseKey validates a wire-level feature name against the closed set.
func ParseKey(raw string) (Key, error) {
	key := Key(raw)
	switch key {
	case KeyEcommerce, KeyWishlist, KeyRepairs, KeyQuoteOnRequest,
		KeyTickets, KeyLiveChat, KeyInvoicing, KeyVATCalculation,
		KeyInventory, KeyAdvancedInventory, KeyEmployeeManagement:
		return key, nil
	default:
		return "", ErrUnknownKey
	}
}

// FlagSet is one tenant's entitlements. The same shape serves raw stored
// values and derived effective values; the JSON form is the public
// feature-flags payload.
type FlagSet struct {
	Ecommerce          bool `json:"ecommerceEnabled"`
	Wishlist           bool `json:"wishlistEnabled"`
	Repairs            bool `json:"repairsEnabled"`
	QuoteOnRequest     bool `json:"quoteOnRequest"`
	Tickets            bool `json:"ticketsEnabled"`
	LiveChat           bool `json:"liveChatWidget"`
	Invoicing          bool `json:"invoicingEnabled"`
	VATCalculation     bool `json:"vatCalculation"`
	Inventory          bool `json:"inventoryEnabled"`
	AdvancedInventory  bool `json:"advancedInventory"`
	EmployeeManagement bool `json:"employeeManagement"`

	MaxAdminUsers int `json:"maxAdminUsers"`
}

// Raw returns the stored value of one boolean key, before parent gating.
func (f FlagSet) Raw(key Key) bool {
	switch key {
	case KeyEcommerce:
		return f.Ecommerce
	case KeyWishlist:
		return f.Wishlist
	case KeyRepairs:
		return f.Repairs
	case KeyQuoteOnRequest:
		return f.QuoteOnRequest
	case KeyTickets:
		return f.Tickets
	case KeyLiveChat:
		return f.LiveChat
	case KeyInvoicing:
		return f.Invoicing
	case KeyVATCalculation:
		return f.VATCalculation
	case KeyInventory:
		return f.Inventory
	case KeyAdvancedInventory:
		return f.AdvancedInventory
	case KeyEmployeeManagement:
		return f.EmployeeManagement
	default:
		return false
	}
}

func (f *FlagSet) setRaw(key Key, value bool) {
	switch key {
	case KeyEcommerce:
		f.Ecommerce = value
	case KeyWishlist:
		f.Wishlist = value
	case KeyRepairs:
		f.Repairs = value
	case KeyQuoteOnRequest:
		f.QuoteOnRequest = value
	case KeyTickets:
		f.Tickets = value
	case KeyLiveChat:
		f.LiveChat = value
	case KeyInvoicing:
		f.Invoicing = value
	case KeyVATCalculation:
		f.VATCalculation = value
	case KeyInventory:
		f.Inventory = value
	case KeyAdvancedInventory:
		f.AdvancedInventory = value
	case KeyEmployeeManagement:
		f.EmployeeManagement = value
	}
}

const defaultMaxAdminUsers = 99

// AllEnabled is the documented fallback set used by client mirrors when the
// flags endpoint is unreachable. Server-side enforcement never uses it.
func AllEnabled() FlagSet {
	f := FlagSet{MaxAdminUsers: defaultMaxAdminUsers}
	for _, key := range BoolKeys {
		f.setRaw(key, true)
	}
	return f
}
