package helpers

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
)

func TestGroupBuilderPreservesFirstSeenOrder(t *testing.T) {
	t.Parallel()

	vendorA := uuid.New()
	vendorB := uuid.New()

	b := NewGroupBuilder()
	b.Add(vendorA, "Green Acres", models.CartItem{ID: uuid.New()})
	b.Add(vendorB, "Bee Happy", models.CartItem{ID: uuid.New()})
	b.Add(vendorA, "Green Acres", models.CartItem{ID: uuid.New()})

	groups := b.Groups()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].VendorID != vendorA || groups[1].VendorID != vendorB {
		t.Fatal("groups must come back in first-seen vendor order")
	}
	if len(groups[0].Items) != 2 || len(groups[1].Items) != 1 {
		t.Fatalf("unexpected item split: %d/%d", len(groups[0].Items), len(groups[1].Items))
	}
}

func TestVendorDisplayName(t *testing.T) {
	t.Parallel()

	if got := VendorDisplayName(nil); got != "" {
		t.Fatalf("nil vendor should map to empty name, got %q", got)
	}

	vendor := &models.User{Username: "greenacres"}
	if got := VendorDisplayName(vendor); got != "greenacres" {
		t.Fatalf("expected username fallback, got %q", got)
	}

	vendor.Profile = &models.UserProfile{FullName: "Green Acres Farm"}
	if got := VendorDisplayName(vendor); got != "Green Acres Farm" {
		t.Fatalf("expected profile name, got %q", got)
	}
}

func TestNewOrderIdentifierFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^260314[A-Z]{8}$`)

	id, err := NewOrderIdentifier(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pattern.MatchString(id) {
		t.Fatalf("identifier %q does not match yymmdd + 8 letters", id)
	}

	other, err := NewOrderIdentifier(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == other {
		t.Fatal("two identifiers minted at the same instant should differ")
	}
}
