package entity

import "time"

type EventKind string

const (
	EventDealPending  EventKind = "deal_pending"
	EventDealApproved EventKind = "deal_approved"
	EventDealRejected EventKind = "deal_rejected"
)

// Event is something operators may want to hear about outside the dashboard.
type Event struct {
	Kind       EventKind
	Deal       Deal
	Operator   string // empty for events raised by the watcher
	OccurredAt time.Time
}
