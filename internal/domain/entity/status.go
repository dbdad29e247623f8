package entity

import (
	"fmt"
	"slices"
	"strings"
)

type DealStatus string

const (
	StatusDraft             DealStatus = "draft"
	StatusPendingValidation DealStatus = "pending_validation"
	StatusPublished         DealStatus = "published"
	StatusInDiscussion      DealStatus = "in_discussion"
	StatusClosed            DealStatus = "closed"

	// StatusAll is a filter value meaning "no status filter". No deal has it.
	StatusAll DealStatus = "all"
)

// Statuses lists every deal status in display order.
var Statuses = []DealStatus{ //nolint:gochecknoglobals
	StatusDraft,
	StatusPendingValidation,
	StatusPublished,
	StatusInDiscussion,
	StatusClosed,
}

func (s DealStatus) String() string {
	return string(s)
}

func (s DealStatus) Valid() bool {
	return slices.Contains(Statuses, s)
}

func (s DealStatus) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusPendingValidation:
		return "Pending"
	case StatusPublished:
		return "Published"
	case StatusInDiscussion:
		return "In Discussion"
	case StatusClosed:
		return "Closed"
	case StatusAll:
		return "All"
	default:
		return string(s)
	}
}

// ParseFilter accepts a concrete status, "all" or an empty string (= all).
func ParseFilter(raw string) (DealStatus, error) {
	s := DealStatus(strings.TrimSpace(raw))

	switch {
	case s == "" || s == StatusAll:
		return StatusAll, nil
	case s.Valid():
		return s, nil
	default:
		return "", fmt.Errorf("unknown deal status %q", raw)
	}
}
