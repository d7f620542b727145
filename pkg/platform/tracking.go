package platform

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Dashboard is the shape of a fairness dashboard upload: true labels, the
// per-sample sensitive feature, and one prediction array per model ID.
type Dashboard struct {
	YTrue              []float64            `json:"y_true"`
	SensitiveFeature   []string             `json:"sensitive_feature"`
	PredictionsByModel map[string][]float64 `json:"predictions_by_model"`
}

// Run is an open tracking run. Complete must always be called, usually via
// defer, so the run record is closed whether or not uploads succeed.
type Run struct {
	ID    string
	Name  string
	store *Store
}

// StartRun opens a new tracking run.
func (s *Store) StartRun(ctx context.Context, name string) (*Run, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, name) VALUES (?, ?)`, id, name)
	if err != nil {
		return nil, fmt.Errorf("start run %q: %w", name, err)
	}
	return &Run{ID: id, Name: name, store: s}, nil
}

// Complete marks the run finished. Calling it twice is harmless.
func (r *Run) Complete(ctx context.Context) error {
	_, err := r.store.db.ExecContext(ctx,
		`UPDATE runs SET completed_at = CURRENT_TIMESTAMP WHERE id = ?`, r.ID)
	if err != nil {
		return fmt.Errorf("complete run %s: %w", r.ID, err)
	}
	return nil
}

// RunCompleted reports whether the run record has been closed.
func (s *Store) RunCompleted(ctx context.Context, runID string) (bool, error) {
	var completed sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT completed_at FROM runs WHERE id = ?`, runID).Scan(&completed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("query run %s: %w", runID, err)
	}
	return completed.Valid, nil
}

// UploadDashboard stores the dashboard payload under a fresh upload ID.
func (s *Store) UploadDashboard(ctx context.Context, runID string, d *Dashboard) (string, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode dashboard: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO dashboards (id, run_id, payload) VALUES (?, ?, ?)`, id, runID, string(payload))
	if err != nil {
		return "", fmt.Errorf("upload dashboard for run %s: %w", runID, err)
	}
	return id, nil
}

// DownloadDashboard returns the payload uploaded under id, byte-for-byte
// equivalent to what UploadDashboard stored.
func (s *Store) DownloadDashboard(ctx context.Context, id string) (*Dashboard, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM dashboards WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dashboard %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("download dashboard %s: %w", id, err)
	}
	var d Dashboard
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return nil, fmt.Errorf("decode dashboard %s: %w", id, err)
	}
	return &d, nil
}
