package learning

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/citelens/backend/citations"
	"github.com/citelens/backend/weights"
)

// Store persists algorithm versions, rewards, learning metrics and
// citations in an embedded sqlite database. It implements
// weights.Provider; everything else about its schema is private to this
// package.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// VersionMetadata describes how a version came to be.
type VersionMetadata struct {
	Source      string  `json:"source"` // "manual", "strategy", ...
	Description string  `json:"description,omitempty"`
	AvgReward   float64 `json:"avgReward,omitempty"`
}

// AlgorithmVersion is one immutable snapshot of a rubric's weight map.
// Versions are never deleted; the active flag moves between them.
type AlgorithmVersion struct {
	ID        int64              `json:"id"`
	Rubric    weights.RubricType `json:"rubricType"`
	Version   int                `json:"version"`
	Weights   weights.Map        `json:"weights"`
	Metadata  VersionMetadata    `json:"metadata"`
	Active    bool               `json:"active"`
	CreatedAt time.Time          `json:"createdAt"`
}

const schema = `
CREATE TABLE IF NOT EXISTS algorithm_versions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	rubric_type TEXT    NOT NULL,
	version     INTEGER NOT NULL,
	weights     TEXT    NOT NULL,
	metadata    TEXT    NOT NULL DEFAULT '{}',
	active      INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (rubric_type, version)
);
CREATE INDEX IF NOT EXISTS idx_versions_active ON algorithm_versions (rubric_type, active);

CREATE TABLE IF NOT EXISTS rewards (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	analysis_id TEXT    NOT NULL,
	rubric_type TEXT    NOT NULL,
	score       REAL    NOT NULL,
	reward      REAL    NOT NULL,
	metrics     TEXT    NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS learning_metrics (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	rubric_type TEXT    NOT NULL,
	url         TEXT    NOT NULL DEFAULT '',
	score       REAL    NOT NULL,
	reward      REAL    NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_metrics_rubric ON learning_metrics (rubric_type, created_at);
CREATE INDEX IF NOT EXISTS idx_metrics_url ON learning_metrics (url, rubric_type, created_at);

CREATE TABLE IF NOT EXISTS citations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	analysis_id TEXT    NOT NULL,
	url         TEXT    NOT NULL,
	domain      TEXT    NOT NULL,
	anchor_text TEXT    NOT NULL DEFAULT '',
	position    INTEGER NOT NULL DEFAULT 0,
	is_target   INTEGER NOT NULL DEFAULT 0,
	link_type   TEXT    NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_citations_analysis ON citations (analysis_id);
`

// OpenStore opens (and migrates) the sqlite database at path. Use
// ":memory:" for ephemeral stores in tests.
func OpenStore(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// The modernc driver serializes writes itself, but a single connection
	// avoids SQLITE_BUSY under concurrent fire-and-forget persistence.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate learning store: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ActiveWeights implements weights.Provider. Any failure is logged and
// reported as a miss so the resolver falls back to defaults.
func (s *Store) ActiveWeights(rubric weights.RubricType) (weights.Map, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT weights FROM algorithm_versions WHERE rubric_type = ? AND active = 1 ORDER BY version DESC LIMIT 1`,
		string(rubric)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("active weights lookup failed, using defaults", "rubric", string(rubric), "error", err)
		}
		return nil, false
	}

	var m weights.Map
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		if s.logger != nil {
			s.logger.Warn("active weights are not valid json, using defaults", "rubric", string(rubric), "error", err)
		}
		return nil, false
	}
	return m, true
}

// SaveVersion stores a new weight snapshot for the rubric and activates it,
// deactivating any prior active version in the same transaction. History is
// retained for audit and rollback.
func (s *Store) SaveVersion(ctx context.Context, rubric weights.RubricType, w weights.Map, meta VersionMetadata) (AlgorithmVersion, error) {
	weightsJSON, err := json.Marshal(w)
	if err != nil {
		return AlgorithmVersion{}, fmt.Errorf("marshal weights: %w", err)
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return AlgorithmVersion{}, fmt.Errorf("marshal metadata: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AlgorithmVersion{}, fmt.Errorf("begin version transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM algorithm_versions WHERE rubric_type = ?`,
		string(rubric)).Scan(&next); err != nil {
		return AlgorithmVersion{}, fmt.Errorf("next version number: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE algorithm_versions SET active = 0 WHERE rubric_type = ? AND active = 1`,
		string(rubric)); err != nil {
		return AlgorithmVersion{}, fmt.Errorf("deactivate previous version: %w", err)
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO algorithm_versions (rubric_type, version, weights, metadata, active, created_at) VALUES (?, ?, ?, ?, 1, ?)`,
		string(rubric), next, string(weightsJSON), string(metaJSON), now)
	if err != nil {
		return AlgorithmVersion{}, fmt.Errorf("insert version: %w", err)
	}
	id, _ := res.LastInsertId()

	if err := tx.Commit(); err != nil {
		return AlgorithmVersion{}, fmt.Errorf("commit version: %w", err)
	}

	return AlgorithmVersion{
		ID:        id,
		Rubric:    rubric,
		Version:   next,
		Weights:   w.Clone(),
		Metadata:  meta,
		Active:    true,
		CreatedAt: now,
	}, nil
}

// Versions returns every stored version for a rubric, newest first.
func (s *Store) Versions(ctx context.Context, rubric weights.RubricType) ([]AlgorithmVersion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, version, weights, metadata, active, created_at FROM algorithm_versions WHERE rubric_type = ? ORDER BY version DESC`,
		string(rubric))
	if err != nil {
		return nil, fmt.Errorf("query versions: %w", err)
	}
	defer rows.Close()

	var out []AlgorithmVersion
	for rows.Next() {
		v := AlgorithmVersion{Rubric: rubric}
		var weightsRaw, metaRaw string
		var active int
		if err := rows.Scan(&v.ID, &v.Version, &weightsRaw, &metaRaw, &active, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		v.Active = active == 1
		if err := json.Unmarshal([]byte(weightsRaw), &v.Weights); err != nil {
			return nil, fmt.Errorf("decode version weights: %w", err)
		}
		if err := json.Unmarshal([]byte(metaRaw), &v.Metadata); err != nil {
			return nil, fmt.Errorf("decode version metadata: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// SaveCitations persists the citation graph rows of one analysis.
func (s *Store) SaveCitations(ctx context.Context, analysisID string, list []citations.Citation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin citations transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO citations (analysis_id, url, domain, anchor_text, position, is_target, link_type) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare citation insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range list {
		target := 0
		if c.IsTargetURL {
			target = 1
		}
		if _, err := stmt.ExecContext(ctx, analysisID, c.URL, c.Domain, c.AnchorText, c.Position, target, string(c.LinkType)); err != nil {
			return fmt.Errorf("insert citation: %w", err)
		}
	}
	return tx.Commit()
}

// SaveReward persists one rubric's reward for an analysis.
func (s *Store) SaveReward(ctx context.Context, analysisID string, rubric weights.RubricType, r Reward) error {
	metrics, err := json.Marshal(r.Metrics)
	if err != nil {
		return fmt.Errorf("marshal reward metrics: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rewards (analysis_id, rubric_type, score, reward, metrics) VALUES (?, ?, ?, ?, ?)`,
		analysisID, string(rubric), r.Score, r.Reward, string(metrics))
	if err != nil {
		return fmt.Errorf("insert reward: %w", err)
	}
	return nil
}

// RecordLearningMetric appends a score observation used for benchmarks and
// previous-score lookups.
func (s *Store) RecordLearningMetric(ctx context.Context, rubric weights.RubricType, url string, r Reward) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learning_metrics (rubric_type, url, score, reward) VALUES (?, ?, ?, ?)`,
		string(rubric), url, r.Score, r.Reward)
	if err != nil {
		return fmt.Errorf("insert learning metric: %w", err)
	}
	return nil
}

// Benchmark returns the rolling average of the last 20 recorded scores for
// the rubric, or the default benchmark when there is no history.
func (s *Store) Benchmark(ctx context.Context, rubric weights.RubricType) float64 {
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(score) FROM (
			SELECT score FROM learning_metrics WHERE rubric_type = ? ORDER BY created_at DESC, id DESC LIMIT 20
		)`, string(rubric)).Scan(&avg)
	if err != nil || !avg.Valid {
		return DefaultBenchmark
	}
	return avg.Float64
}

// PreviousScore returns the most recent recorded score for a URL and
// rubric, if any.
func (s *Store) PreviousScore(ctx context.Context, url string, rubric weights.RubricType) (float64, bool) {
	var score float64
	err := s.db.QueryRowContext(ctx,
		`SELECT score FROM learning_metrics WHERE url = ? AND rubric_type = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		url, string(rubric)).Scan(&score)
	if err != nil {
		return 0, false
	}
	return score, true
}
