package domain

import (
	"fmt"
	"strings"
)

// Status is the halal classification assigned to a material.
// A material with no matching rule has no Status; see Decision.Matched.
type Status uint8

const (
	// StatusHalal marks a material as permissible.
	StatusHalal Status = iota + 1
	// StatusHaram marks a material as forbidden.
	StatusHaram
	// StatusReview marks a material as ambiguous (mashbooh); its source must be verified by hand.
	StatusReview
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{StatusHalal, StatusHaram, StatusReview}

// String returns the stable key used in rule files ("halal", "haram", "review").
func (s Status) String() string {
	switch s {
	case StatusHalal:
		return "halal"
	case StatusHaram:
		return "haram"
	case StatusReview:
		return "review"
	default:
		return fmt.Sprintf("Status(%d)", s)
	}
}

// ParseStatus converts a rule-file key into a Status (case-insensitive).
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "halal":
		return StatusHalal, nil
	case "haram":
		return StatusHaram, nil
	case "review":
		return StatusReview, nil
	default:
		return 0, fmt.Errorf("unsupported status: %q", s)
	}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s >= StatusHalal && s <= StatusReview
}
