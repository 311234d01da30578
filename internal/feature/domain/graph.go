package domain

// parents maps a child feature to the feature that must also be enabled for
// the child to take effect. The graph is acyclic; the walk below tolerates
// chains deeper than one level even though none exist today.
var parents = map[Key]Key{
	KeyWishlist:          KeyEcommerce,
	KeyQuoteOnRequest:    KeyRepairs,
	KeyLiveChat:          KeyTickets,
	KeyVATCalculation:    KeyInvoicing,
	KeyAdvancedInventory: KeyInventory,
}

// Parent returns the required parent of key, if the graph declares one.
func Parent(key Key) (Key, bool) {
	parent, ok := parents[key]
	return parent, ok
}

// EffectiveEnabled reports whether key is enabled after parent gating: the
// raw value must be true and every ancestor's raw value must be true. A
// disabled parent acts as a kill-switch for all descendants without touching
// their stored values.
func EffectiveEnabled(flags FlagSet, key Key) bool {
	if !flags.Raw(key) {
		return false
	}
	for parent, ok := parents[key]; ok; parent, ok = parents[parent] {
		if !flags.Raw(parent) {
			return false
		}
	}
	return true
}

// Effective derives the full post-gating flag set. Numeric entitlements pass
// through unchanged.
func Effective(flags FlagSet) FlagSet {
	out := FlagSet{MaxAdminUsers: flags.MaxAdminUsers}
	for _, key := range BoolKeys {
		out.setRaw(key, EffectiveEnabled(flags, key))
	}
	return out
}

// View is the read surface handed to request handlers. It never exposes raw
// values, so parent gating cannot be bypassed downstream.
type View struct {
	raw FlagSet
}

func NewView(raw FlagSet) View {
	return View{raw: raw}
}

func (v View) Enabled(key Key) bool {
	return EffectiveEnabled(v.raw, key)
}

func (v View) MaxAdminUsers() int {
	return v.raw.MaxAdminUsers
}

// Effective returns the derived flag set, e.g. for the public flags endpoint.
func (v View) Effective() FlagSet {
	return Effective(v.raw)
}
