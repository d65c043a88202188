package entity

import "time"

// Notification is a role-facing event record written after a business
// operation commits. Delivery transport is external; this is the stored row.
type Notification struct {
	ID        string // uuid
	UserID    int64
	Type      string
	Title     string
	Message   string
	Icon      string
	IsRead    bool
	CreatedAt time.Time
}

// Actor identifies who performed an operation. Resolved by the transport
// layer (token, headers, or a trusted default) and passed in explicitly.
type Actor struct {
	ID   int64
	Name string
}
