// Package storage defines the persistence contracts for the reminder engine:
// subscriptions, per-user notification preferences, and the append-only
// reminder ledger that provides the engine's idempotency guarantee.
package storage

import (
	"context"
	"fmt"
	"time"
)

// BillingCycle is how often a subscription renews.
type BillingCycle string

// Supported billing cycles.
const (
	CycleWeekly  BillingCycle = "weekly"
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Valid reports whether c is a known billing cycle.
func (c BillingCycle) Valid() bool {
	switch c {
	case CycleWeekly, CycleMonthly, CycleYearly:
		return true
	}
	return false
}

// Subscription is a recurring subscription tracked for a user. The reminder
// engine treats subscriptions as read-only; mutation belongs to the CRUD
// surface.
type Subscription struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Name         string       `json:"name"`
	CostCents    int64        `json:"cost_cents"`
	Currency     string       `json:"currency"`
	BillingCycle BillingCycle `json:"billing_cycle"`
	NextRenewal  time.Time    `json:"next_renewal"`
	Active       bool         `json:"active"`
	Trial        bool         `json:"trial"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Validate checks the fields the reminder engine depends on.
func (s *Subscription) Validate() error {
	if s.UserID == "" {
		return fmt.Errorf("subscription %q: missing user id", s.ID)
	}
	if s.Name == "" {
		return fmt.Errorf("subscription %q: missing name", s.ID)
	}
	if !s.BillingCycle.Valid() {
		return fmt.Errorf("subscription %q: unknown billing cycle %q", s.ID, s.BillingCycle)
	}
	if s.NextRenewal.IsZero() {
		return fmt.Errorf("subscription %q: missing next renewal date", s.ID)
	}
	return nil
}

// SubscriptionStore defines persistence for subscriptions.
type SubscriptionStore interface {
	// ListActiveForUser returns the user's active subscriptions.
	ListActiveForUser(ctx context.Context, userID string) ([]*Subscription, error)
	// ListForUser returns all of the user's subscriptions, active or not.
	ListForUser(ctx context.Context, userID string) ([]*Subscription, error)
	// Get returns the subscription with the given id, or nil if absent.
	Get(ctx context.Context, id string) (*Subscription, error)
	// Create persists a new subscription.
	Create(ctx context.Context, sub *Subscription) error
	// Update replaces an existing subscription.
	Update(ctx context.Context, sub *Subscription) error
	// Delete removes a subscription.
	Delete(ctx context.Context, id string) error
}
