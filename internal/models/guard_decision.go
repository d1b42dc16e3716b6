package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GuardDecision is one route guard evaluation. Authenticated is nil when
// the session oracle was not consulted.
type GuardDecision struct {
	ID            int64     `json:"id"`
	RequestID     string    `json:"request_id"`
	Method        string    `json:"method"`
	Path          string    `json:"path"`
	Action        string    `json:"action"`
	HasCookie     bool      `json:"has_cookie"`
	Authenticated *bool     `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
}

// DecisionLog persists guard decisions. A nil *DecisionLog or nil DB is a
// disabled log.
type DecisionLog struct {
	DB *sql.DB
	// MaxRows caps the table; older rows are pruned on insert. Zero keeps
	// everything.
	MaxRows int
}

func NewDecisionLog(db *sql.DB) *DecisionLog {
	return &DecisionLog{DB: db}
}

func (l *DecisionLog) Enabled() bool {
	return l != nil && l.DB != nil
}

func (l *DecisionLog) RecordDecision(ctx context.Context, d GuardDecision) error {
	if !l.Enabled() {
		return ErrAuditDisabled
	}
	var authed sql.NullBool
	if d.Authenticated != nil {
		authed = sql.NullBool{Bool: *d.Authenticated, Valid: true}
	}
	res, err := l.DB.ExecContext(ctx,
		`INSERT INTO guard_decisions(request_id, method, path, action, has_cookie, authenticated) VALUES (?, ?, ?, ?, ?, ?)`,
		d.RequestID, d.Method, d.Path, d.Action, d.HasCookie, authed,
	)
	if err != nil {
		return fmt.Errorf("insert guard decision: %w", err)
	}
	if l.MaxRows <= 0 {
		return nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("guard decision id: %w", err)
	}
	if cutoff := id - int64(l.MaxRows); cutoff > 0 {
		if _, err := l.DB.ExecContext(ctx, `DELETE FROM guard_decisions WHERE id <= ?`, cutoff); err != nil {
			return fmt.Errorf("prune guard decisions: %w", err)
		}
	}
	return nil
}

// ListRecentDecisions returns up to limit decisions, newest first.
func (l *DecisionLog) ListRecentDecisions(ctx context.Context, limit int) ([]GuardDecision, error) {
	if !l.Enabled() {
		return nil, ErrAuditDisabled
	}
	rows, err := l.DB.QueryContext(ctx,
		`SELECT id, request_id, method, path, action, has_cookie, authenticated, created_at
		 FROM guard_decisions ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list guard decisions: %w", err)
	}
	defer rows.Close()

	out := []GuardDecision{}
	for rows.Next() {
		var d GuardDecision
		var authed sql.NullBool
		if err := rows.Scan(&d.ID, &d.RequestID, &d.Method, &d.Path, &d.Action, &d.HasCookie, &authed, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan guard decision: %w", err)
		}
		if authed.Valid {
			v := authed.Bool
			d.Authenticated = &v
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guard decisions: %w", err)
	}
	return out, nil
}

// GetDecision loads a single decision by id.
func (l *DecisionLog) GetDecision(ctx context.Context, id int64) (*GuardDecision, error) {
	if !l.Enabled() {
		return nil, ErrAuditDisabled
	}
	var d GuardDecision
	var authed sql.NullBool
	err := l.DB.QueryRowContext(ctx,
		`SELECT id, request_id, method, path, action, has_cookie, authenticated, created_at
		 FROM guard_decisions WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.RequestID, &d.Method, &d.Path, &d.Action, &d.HasCookie, &authed, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get guard decision: %w", err)
	}
	if authed.Valid {
		v := authed.Bool
		d.Authenticated = &v
	}
	return &d, nil
}
