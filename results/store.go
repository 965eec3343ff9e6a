package results

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BaSui01/clinicalflow/internal/database"
	"github.com/BaSui01/clinicalflow/pipeline"
	"github.com/BaSui01/clinicalflow/structured"
)

// Record is one persisted item result.
type Record struct {
	ID            uint      `gorm:"primaryKey"`
	RunID         string    `gorm:"size:36;index;not null"`
	Identifier    string    `gorm:"size:512;not null"`
	PromptVersion string    `gorm:"size:16"`
	OK            bool      `gorm:"not null"`
	Attempts      int       `gorm:"not null"`
	Errors        string    `gorm:"type:text"`
	Output        string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"index"`
}

// TableName implements gorm's tabler.
func (Record) TableName() string { return "clinical_runs" }

// Result converts the row back into a pipeline result.
func (r Record) Result() (pipeline.Result, error) {
	res := pipeline.Result{Identifier: r.Identifier, Success: r.OK, Attempts: r.Attempts, Errors: []string{}}
	if r.Errors != "" {
		if err := json.Unmarshal([]byte(r.Errors), &res.Errors); err != nil {
			return res, fmt.Errorf("decode errors of record %d: %w", r.ID, err)
		}
	}
	if r.Output != "" {
		var out structured.ClinicalOutput
		if err := json.Unmarshal([]byte(r.Output), &out); err != nil {
			return res, fmt.Errorf("decode output of record %d: %w", r.ID, err)
		}
		res.Output = &out
	}
	return res, nil
}

// QueryRecorder observes store queries. *metrics.Collector satisfies it.
type QueryRecorder interface {
	RecordDBQuery(database, operation string, duration time.Duration)
}

// Store persists run history through gorm.
type Store struct {
	pool     *database.PoolManager
	recorder QueryRecorder
	logger   *zap.Logger
}

// NewStore creates a store on pool. recorder may be nil.
func NewStore(pool *database.PoolManager, recorder QueryRecorder, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{pool: pool, recorder: recorder, logger: logger.With(zap.String("component", "run_store"))}
}

// NewRunID returns an identifier for a batch or interactive session.
func NewRunID() string { return uuid.NewString() }

// Migrate creates or updates the history table.
func (s *Store) Migrate(ctx context.Context) error {
	defer s.observe("migrate", time.Now())
	if err := s.pool.DB().WithContext(ctx).AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("migrate run history: %w", err)
	}
	return nil
}

// Save stores every result of one run in a single transaction.
func (s *Store) Save(ctx context.Context, runID, promptVersion string, results []pipeline.Result) error {
	if len(results) == 0 {
		return nil
	}
	defer s.observe("insert", time.Now())

	now := time.Now().UTC()
	rows := make([]Record, 0, len(results))
	for _, r := range results {
		row, err := newRecord(runID, promptVersion, r, now)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	err := s.pool.WithTransaction(ctx, func(tx *gorm.DB) error {
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("save run %s: %w", runID, err)
	}
	s.logger.Debug("run saved", zap.String("run_id", runID), zap.Int("results", len(rows)))
	return nil
}

// Run returns the records of one run in insertion order.
func (s *Store) Run(ctx context.Context, runID string) ([]Record, error) {
	defer s.observe("select", time.Now())
	var rows []Record
	err := s.pool.DB().WithContext(ctx).
		Where("run_id = ?", runID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	return rows, nil
}

// Recent returns the latest records across runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	defer s.observe("select", time.Now())
	var rows []Record
	err := s.pool.DB().WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load recent runs: %w", err)
	}
	return rows, nil
}

func (s *Store) observe(operation string, start time.Time) {
	if s.recorder != nil {
		s.recorder.RecordDBQuery(s.pool.Driver(), operation, time.Since(start))
	}
}

func newRecord(runID, promptVersion string, r pipeline.Result, at time.Time) (Record, error) {
	errs := r.Errors
	if errs == nil {
		errs = []string{}
	}
	errJSON, err := json.Marshal(errs)
	if err != nil {
		return Record{}, fmt.Errorf("encode errors of %s: %w", r.Identifier, err)
	}
	row := Record{
		RunID:         runID,
		Identifier:    r.Identifier,
		PromptVersion: promptVersion,
		OK:            r.Success,
		Attempts:      r.Attempts,
		Errors:        string(errJSON),
		CreatedAt:     at,
	}
	if r.Output != nil {
		out, err := json.Marshal(r.Output)
		if err != nil {
			return Record{}, fmt.Errorf("encode output of %s: %w", r.Identifier, err)
		}
		row.Output = string(out)
	}
	return row, nil
}
