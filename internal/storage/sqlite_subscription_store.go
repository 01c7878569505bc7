package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLiteSubscriptionStore implements SubscriptionStore backed by SQLite.
type SQLiteSubscriptionStore struct {
	db *sql.DB
}

// NewSQLiteSubscriptionStore returns a new SQLiteSubscriptionStore.
func NewSQLiteSubscriptionStore(db *sql.DB) *SQLiteSubscriptionStore {
	return &SQLiteSubscriptionStore{db: db}
}

const subscriptionColumns = `id, user_id, name, cost_cents, currency, billing_cycle,
	next_renewal, active, trial, created_at, updated_at`

// ListActiveForUser returns the user's active subscriptions ordered by renewal date.
func (s *SQLiteSubscriptionStore) ListActiveForUser(ctx context.Context, userID string) ([]*Subscription, error) {
	return s.list(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = ? AND active = 1
		ORDER BY next_renewal, id`, userID)
}

// ListForUser returns all of the user's subscriptions ordered by renewal date.
func (s *SQLiteSubscriptionStore) ListForUser(ctx context.Context, userID string) ([]*Subscription, error) {
	return s.list(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = ?
		ORDER BY next_renewal, id`, userID)
}

// Get returns the subscription with the given id, or nil if it does not exist.
func (s *SQLiteSubscriptionStore) Get(ctx context.Context, id string) (*Subscription, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions WHERE id = ?`, id)

	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading subscription %q: %w", id, err)
	}
	return sub, nil
}

// Create persists a new subscription, assigning an id if none is set.
func (s *SQLiteSubscriptionStore) Create(ctx context.Context, sub *Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (`+subscriptionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.UserID, sub.Name, sub.CostCents, sub.Currency,
		string(sub.BillingCycle), sub.NextRenewal.UTC(),
		boolToInt(sub.Active), boolToInt(sub.Trial), sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting subscription: %w", err)
	}
	return nil
}

// Update replaces an existing subscription.
func (s *SQLiteSubscriptionStore) Update(ctx context.Context, sub *Subscription) error {
	sub.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET name = ?, cost_cents = ?, currency = ?, billing_cycle = ?,
		    next_renewal = ?, active = ?, trial = ?, updated_at = ?
		WHERE id = ?`,
		sub.Name, sub.CostCents, sub.Currency, string(sub.BillingCycle),
		sub.NextRenewal.UTC(), boolToInt(sub.Active), boolToInt(sub.Trial),
		sub.UpdatedAt, sub.ID,
	)
	if err != nil {
		return fmt.Errorf("updating subscription %q: %w", sub.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of subscription %q: %w", sub.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("subscription %q not found", sub.ID)
	}
	return nil
}

// Delete removes a subscription.
func (s *SQLiteSubscriptionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting subscription %q: %w", id, err)
	}
	return nil
}

func (s *SQLiteSubscriptionStore) list(ctx context.Context, query string, args ...any) ([]*Subscription, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying subscriptions: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var subs []*Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning subscription row: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subscription rows: %w", err)
	}
	return subs, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*Subscription, error) {
	var (
		sub           Subscription
		cycle         string
		active, trial int
	)
	err := row.Scan(&sub.ID, &sub.UserID, &sub.Name, &sub.CostCents, &sub.Currency,
		&cycle, &sub.NextRenewal, &active, &trial, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sub.BillingCycle = BillingCycle(cycle)
	sub.Active = active != 0
	sub.Trial = trial != 0
	return &sub, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
