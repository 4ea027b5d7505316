package store

import (
	"context"
	"encoding/json"
	"fmt"

	"finreview/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore is the database-backed result store. Insertion order is
// preserved by the serial primary key; concurrent appends are safe without
// extra locking.
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresStore(db *pgxpool.Pool, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the results table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_results (
			id              BIGSERIAL PRIMARY KEY,
			name            TEXT NOT NULL,
			email           TEXT NOT NULL,
			course          TEXT NOT NULL,
			grade_output    TEXT NOT NULL,
			timestamp       TEXT NOT NULL,
			criteria_scores JSONB NOT NULL DEFAULT '[]',
			document_type   TEXT NOT NULL,
			red_flags       TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure analysis_results schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, record models.ResultRecord) error {
	scores, err := json.Marshal(record.CriteriaScores)
	if err != nil {
		return fmt.Errorf("failed to encode criteria scores: %w", err)
	}

	query := squirrel.Insert("analysis_results").
		Columns("name", "email", "course", "grade_output", "timestamp", "criteria_scores", "document_type", "red_flags").
		Values(record.Name, record.Email, record.Course, record.GradeOutput, record.Timestamp, scores, record.DocumentType, record.RedFlags).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to append result record: %w", err)
	}

	s.logger.Debug("Result record appended", zap.String("document_type", record.DocumentType))

	return nil
}

func (s *PostgresStore) ReadAll(ctx context.Context) ([]models.ResultRecord, error) {
	query := squirrel.Select("name", "email", "course", "grade_output", "timestamp", "criteria_scores", "document_type", "red_flags").
		From("analysis_results").
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read result records: %w", err)
	}
	defer rows.Close()

	records := []models.ResultRecord{}
	for rows.Next() {
		var record models.ResultRecord
		var scores []byte
		if err := rows.Scan(
			&record.Name, &record.Email, &record.Course, &record.GradeOutput,
			&record.Timestamp, &scores, &record.DocumentType, &record.RedFlags,
		); err != nil {
			return nil, err
		}
		if len(scores) > 0 {
			if err := json.Unmarshal(scores, &record.CriteriaScores); err != nil {
				return nil, fmt.Errorf("failed to decode criteria scores: %w", err)
			}
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
