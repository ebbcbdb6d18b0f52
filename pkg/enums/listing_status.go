package enums

import "fmt"

// ListingStatus tracks the publication state of a product or variation.
type ListingStatus string

const (
	ListingStatusPublished       ListingStatus = "published"
	ListingStatusOutOfStock      ListingStatus = "out_of_stock"
	ListingStatusHidden          ListingStatus = "hidden"
	ListingStatusPendingApproval ListingStatus = "pending_approval"
	ListingStatusDeleted         ListingStatus = "deleted"
)

var validListingStatuses = []ListingStatus{
	ListingStatusPublished,
	ListingStatusOutOfStock,
	ListingStatusHidden,
	ListingStatusPendingApproval,
	ListingStatusDeleted,
}

// String implements fmt.Stringer.
func (l ListingStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known ListingStatus.
func (l ListingStatus) IsValid() bool {
	for _, candidate := range validListingStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseListingStatus converts raw input into a ListingStatus.
func ParseListingStatus(value string) (ListingStatus, error) {
	for _, candidate := range validListingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing status %q", value)
}
