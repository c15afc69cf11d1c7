package domain

import "time"

type OrderSettings struct {
	OrderDeadline   *time.Time `json:"orderDeadline,omitempty"`
	MenuLastUpdated *time.Time `json:"menuLastUpdated,omitempty"`
}

// DeadlinePassed reports whether ordering is closed at now. No deadline means open.
func (s OrderSettings) DeadlinePassed(now time.Time) bool {
	return s.OrderDeadline != nil && now.After(*s.OrderDeadline)
}
