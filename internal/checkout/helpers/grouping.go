package helpers

import (
	"github.com/google/uuid"

	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
)

// VendorGroup is one vendor's slice of cart items, in insertion order.
type VendorGroup struct {
	VendorID   uuid.UUID
	VendorName string
	Items      []models.CartItem
}

// GroupBuilder partitions cart items by vendor while preserving the order in
// which vendors were first seen. Cross-vendor ordering is not a contract, but
// deterministic iteration keeps results and tests stable.
type GroupBuilder struct {
	order  []uuid.UUID
	groups map[uuid.UUID]*VendorGroup
}

// NewGroupBuilder returns an empty builder.
func NewGroupBuilder() *GroupBuilder {
	return &GroupBuilder{groups: map[uuid.UUID]*VendorGroup{}}
}

// Add appends the item to its vendor's group, creating the group on first sight.
func (b *GroupBuilder) Add(vendorID uuid.UUID, vendorName string, item models.CartItem) {
	group, ok := b.groups[vendorID]
	if !ok {
		group = &VendorGroup{VendorID: vendorID, VendorName: vendorName}
		b.groups[vendorID] = group
		b.order = append(b.order, vendorID)
	}
	group.Items = append(group.Items, item)
}

// Groups returns the accumulated groups in first-seen vendor order.
func (b *GroupBuilder) Groups() []VendorGroup {
	out := make([]VendorGroup, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.groups[id])
	}
	return out
}

// VendorDisplayName picks the public-facing name for a vendor account.
func VendorDisplayName(vendor *models.User) string {
	if vendor == nil {
		return ""
	}
	if vendor.Profile != nil && vendor.Profile.FullName != "" {
		return vendor.Profile.FullName
	}
	return vendor.Username
}
