package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quantrell/many-futures/internal/audit"
	"github.com/quantrell/many-futures/internal/common"
	"github.com/quantrell/many-futures/internal/model"
)

// CouncilRun is one completed council session: the profile it analyzed,
// every seat's recommendation, the divergence analysis, and the audit trail.
type CouncilRun struct {
	ID              uuid.UUID               `json:"id"`
	CreatedAt       time.Time               `json:"created_at"`
	Profile         model.Profile           `json:"profile"`
	Recommendations []model.Recommendation  `json:"recommendations"`
	Divergence      *model.DivergenceResult `json:"divergence,omitempty"`
	Audit           []audit.Entry           `json:"audit,omitempty"`
}

// RunSummary is the listing view of a stored run.
type RunSummary struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Seats     int       `json:"seats"`
	Succeeded int       `json:"succeeded"`
}

// SaveRun persists a completed council run. A zero ID is stamped.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run CouncilRun) (uuid.UUID, error) {
	if err := validateContext(ctx); err != nil {
		return uuid.Nil, err
	}
	if len(run.Recommendations) == 0 {
		return uuid.Nil, fmt.Errorf("run has no recommendations")
	}

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	profileJSON, err := json.Marshal(run.Profile)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	recsJSON, err := json.Marshal(run.Recommendations)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	var divergenceJSON []byte
	if run.Divergence != nil {
		divergenceJSON, err = json.Marshal(run.Divergence)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal divergence: %w", err)
		}
	}

	var auditJSON []byte
	if len(run.Audit) > 0 {
		auditJSON, err = json.Marshal(run.Audit)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal audit log: %w", err)
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO council_runs (id, created_at, profile_json, recommendations_json, divergence_json, audit_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.CreatedAt, string(profileJSON), string(recsJSON),
		nullableString(divergenceJSON), nullableString(auditJSON))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save run: %w", err)
	}

	return run.ID, nil
}

// GetRun loads one stored run by ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, id uuid.UUID) (CouncilRun, error) {
	if err := validateContext(ctx); err != nil {
		return CouncilRun{}, err
	}

	var (
		run            CouncilRun
		idStr          string
		profileJSON    string
		recsJSON       string
		divergenceJSON sql.NullString
		auditJSON      sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, profile_json, recommendations_json, divergence_json, audit_json
		 FROM council_runs WHERE id = ?`, id.String()).
		Scan(&idStr, &run.CreatedAt, &profileJSON, &recsJSON, &divergenceJSON, &auditJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return CouncilRun{}, fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return CouncilRun{}, fmt.Errorf("failed to load run: %w", err)
	}

	run.ID, err = uuid.Parse(idStr)
	if err != nil {
		return CouncilRun{}, fmt.Errorf("invalid run id %q: %w", idStr, err)
	}

	if err := json.Unmarshal([]byte(profileJSON), &run.Profile); err != nil {
		return CouncilRun{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	if err := json.Unmarshal([]byte(recsJSON), &run.Recommendations); err != nil {
		return CouncilRun{}, fmt.Errorf("failed to unmarshal recommendations: %w", err)
	}
	if divergenceJSON.Valid && divergenceJSON.String != "" {
		run.Divergence = &model.DivergenceResult{}
		if err := json.Unmarshal([]byte(divergenceJSON.String), run.Divergence); err != nil {
			return CouncilRun{}, fmt.Errorf("failed to unmarshal divergence: %w", err)
		}
	}
	if auditJSON.Valid && auditJSON.String != "" {
		if err := json.Unmarshal([]byte(auditJSON.String), &run.Audit); err != nil {
			return CouncilRun{}, fmt.Errorf("failed to unmarshal audit log: %w", err)
		}
	}

	return run, nil
}

// ListRuns returns summaries of stored runs, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, recommendations_json
		 FROM council_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []RunSummary
	for rows.Next() {
		var (
			idStr    string
			created  time.Time
			recsJSON string
		)
		if err := rows.Scan(&idStr, &created, &recsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", idStr, err)
		}

		var recs []model.Recommendation
		if err := json.Unmarshal([]byte(recsJSON), &recs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
		}

		summary := RunSummary{ID: id, CreatedAt: created, Seats: len(recs)}
		for _, rec := range recs {
			if rec.Succeeded() {
				summary.Succeeded++
			}
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return summaries, nil
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
