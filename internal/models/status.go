package models

import (
	"fmt"
	"strings"
)

// DeliveryStatus is the outcome state of an assigned bill. The original
// admin panel compared free-form strings; here the values are a closed set
// with an explicit transition function.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "Pending"
	StatusCompleted DeliveryStatus = "Completed"
	StatusRejected  DeliveryStatus = "Rejected"
)

// ParseDeliveryStatus validates a wire string against the closed set.
// Matching is case-insensitive; the canonical form is returned.
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	for _, status := range []DeliveryStatus{StatusPending, StatusCompleted, StatusRejected} {
		if strings.EqualFold(s, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown delivery status %q", s)
}

// Valid reports whether the status is one of the closed set.
func (s DeliveryStatus) Valid() bool {
	_, err := ParseDeliveryStatus(string(s))
	return err == nil
}

// Terminal reports whether the status ends the delivery attempt. Terminal
// bills leave the deliverer's pending list and gain a history record.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// CanTransition reports whether a bill currently at `s` may move to `next`.
// Pending may move anywhere in the set; terminal states only repeat
// themselves (an overwrite with the same outcome is a no-op, not a
// transition). Undo and Reassign start a fresh cycle rather than walking
// backwards through this table.
func (s DeliveryStatus) CanTransition(next DeliveryStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == StatusPending {
		return true
	}
	return s == next
}
