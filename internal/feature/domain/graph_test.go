package domain

import "testing"

func TestParentKillSwitch(t *testing.T) {
	flags := FlagSet{Wishlist: true, Ecommerce: false}

	if EffectiveEnabled(flags, KeyWishlist) {
		t.Fatal("wishlist must be off while ecommerce is off")
	}

	flags.Ecommerce = true
	if !EffectiveEnabled(flags, KeyWishlist) {
		t.Fatal("wishlist must re-enable once ecommerce is on")
	}
}

func TestParentGatingAllPairs(t *testing.T) {
	for _, child := range BoolKeys {
		parent, ok := Parent(child)
		if !ok {
			continue
		}

		var flags FlagSet
		flags.setRaw(child, true)
		if EffectiveEnabled(flags, child) {
			t.Fatalf("%s effective with parent %s disabled", child, parent)
		}

		flags.setRaw(parent, true)
		if !EffectiveEnabled(flags, child) {
			t.Fatalf("%s not effective with parent %s enabled", child, parent)
		}
	}
}

func TestUngatedFeatureEqualsRaw(t *testing.T) {
	for _, key := range BoolKeys {
		if _, gated := Parent(key); gated {
			continue
		}

		var flags FlagSet
		if EffectiveEnabled(flags, key) {
			t.Fatalf("%s effective while raw is false", key)
		}
		flags.setRaw(key, true)
		if !EffectiveEnabled(flags, key) {
			t.Fatalf("%s not effective while raw is true", key)
		}
	}
}

func TestEffectiveDoesNotMutateRaw(t *testing.T) {
	flags := FlagSet{Wishlist: true, QuoteOnRequest: true, MaxAdminUsers: 3}

	derived := Effective(flags)
	if derived.Wishlist || derived.QuoteOnRequest {
		t.Fatal("children must be derived off while parents are off")
	}
	if derived.MaxAdminUsers != 3 {
		t.Fatalf("numeric entitlement changed: %d", derived.MaxAdminUsers)
	}
	if !flags.Wishlist || !flags.QuoteOnRequest {
		t.Fatal("raw flag set must stay untouched")
	}
}

func TestParseKey(t *testing.T) {
	for _, key := range BoolKeys {
		parsed, err := ParseKey(string(key))
		if err != nil || parsed != key {
			t.Fatalf("failed to parse %s: %v", key, err)
		}
	}
	if _, err := ParseKey("maxAdminUsers"); err != ErrUnknownKey {
		t.Fatalf("numeric entitlement must not parse as boolean key, got %v", err)
	}
	if _, err := ParseKey("somethingElse"); err != ErrUnknownKey {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestViewHidesRawValues(t *testing.T) {
	view := NewView(FlagSet{Wishlist: true, MaxAdminUsers: 5})

	if view.Enabled(KeyWishlist) {
		t.Fatal("view must apply parent gating")
	}
	if view.MaxAdminUsers() != 5 {
		t.Fatalf("unexpected max admin users: %d", view.MaxAdminUsers())
	}

	derived := view.Effective()
	if derived.Wishlist {
		t.Fatal("effective payload must carry gated values")
	}
}
