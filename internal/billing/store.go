package billing

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/welcomenesthr/welcomenest-golang/internal/models"
)

// ErrMultipleCustomerMatches means more than one user row carries the
// same Stripe customer ID. That is a data-integrity fault to report,
// never something to resolve by picking the first row.
var ErrMultipleCustomerMatches = errors.New("billing: multiple users share one stripe customer id")

// Store is what the webhook reconciler needs from persistence. The SQL
// implementation below is the real one; tests swap in a memory fake.
type Store interface {
	// FindUserByCustomerID returns (nil, nil) when no user is linked to
	// the customer ID (a valid outcome, not an error).
	FindUserByCustomerID(customerID string) (*models.User, error)

	// ApplyPlan persists the tier onto the user. Idempotent, and a no-op
	// when the event timestamp is older than the last one applied.
	// It never touches trial_ends_at.
	ApplyPlan(userID int64, tier Tier, eventAt time.Time) error

	// EventAlreadyProcessed / MarkEventProcessed form the idempotency
	// ledger keyed by Stripe event ID.
	EventAlreadyProcessed(eventID string) (bool, error)
	MarkEventProcessed(eventID, eventType string) error

	// PruneProcessedEvents drops ledger rows older than the cutoff and
	// returns how many were removed.
	PruneProcessedEvents(olderThan time.Time) (int64, error)
}

// SQLStore is the MySQL-backed Store.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

func (s *SQLStore) FindUserByCustomerID(customerID string) (*models.User, error) {
	query := `
		SELECT id, email, full_name, plan, trial_ends_at, plan_event_at
		FROM users
		WHERE stripe_customer_id = ?
		LIMIT 2`

	rows, err := s.DB.Query(query, customerID)
	if err != nil {
		return nil, fmt.Errorf("billing: customer lookup: %w", err)
	}
	defer rows.Close()

	var matches []*models.User
	for rows.Next() {
		var user models.User
		var trialEndsAt, planEventAt sql.NullTime
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.FullName,
			&user.Plan,
			&trialEndsAt,
			&planEventAt,
		); err != nil {
			return nil, fmt.Errorf("billing: scan user row: %w", err)
		}
		if trialEndsAt.Valid {
			user.TrialEndsAt = &trialEndsAt.Time
		}
		if planEventAt.Valid {
			user.PlanEventAt = &planEventAt.Time
		}
		matches = append(matches, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("billing: customer lookup rows: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, ErrMultipleCustomerMatches
	}
}

// SupersedesPlanEvent reports whether an event stamped eventAt may
// overwrite a plan last written by an event stamped lastApplied. A replay
// of the same event passes (the write is idempotent); a strictly older
// event is rejected.
func SupersedesPlanEvent(lastApplied *time.Time, eventAt time.Time) bool {
	return lastApplied == nil || !lastApplied.After(eventAt)
}

func (s *SQLStore) ApplyPlan(userID int64, tier Tier, eventAt time.Time) error {
	// The plan_event_at guard in the WHERE clause is the SQL form of
	// SupersedesPlanEvent: deliveries older than the one already applied
	// are rejected, replaying the same event is a harmless no-op.
	query := `
		UPDATE users
		SET plan = ?, plan_event_at = ?, updated_at = ?
		WHERE id = ? AND (plan_event_at IS NULL OR plan_event_at <= ?)`

	_, err := s.DB.Exec(query, string(tier), eventAt, time.Now(), userID, eventAt)
	if err != nil {
		return fmt.Errorf("billing: apply plan: %w", err)
	}
	return nil
}

func (s *SQLStore) EventAlreadyProcessed(eventID string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM billing_events WHERE event_id = ?)"
	if err := s.DB.QueryRow(query, eventID).Scan(&exists); err != nil {
		return false, fmt.Errorf("billing: ledger check: %w", err)
	}
	return exists, nil
}

func (s *SQLStore) MarkEventProcessed(eventID, eventType string) error {
	// INSERT IGNORE keeps a racing duplicate delivery from failing here;
	// it already lost the idempotency check by then.
	query := `
		INSERT IGNORE INTO billing_events (event_id, event_type, processed_at)
		VALUES (?, ?, ?)`

	_, err := s.DB.Exec(query, eventID, eventType, time.Now())
	if err != nil {
		return fmt.Errorf("billing: mark event processed: %w", err)
	}
	return nil
}

func (s *SQLStore) PruneProcessedEvents(olderThan time.Time) (int64, error) {
	res, err := s.DB.Exec("DELETE FROM billing_events WHERE processed_at < ?", olderThan)
	if err != nil {
		return 0, fmt.Errorf("billing: prune ledger: %w", err)
	}
	return res.RowsAffected()
}
