package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cashwise/flowcast/internal/model"
)

// SaveAnalysis persists one vendor-group analysis run. Analyses are
// append-only: a new run inserts a new row.
func (s *SQLiteStorage) SaveAnalysis(ctx context.Context, analysis *model.VendorAnalysis) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAnalysis(analysis); err != nil {
		return err
	}

	var frequencyDays any
	if analysis.Pattern.FrequencyDays != nil {
		frequencyDays = *analysis.Pattern.FrequencyDays
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (client_id, display_name, category, pattern_type, confidence,
			frequency_days, amount_pattern, average_amount, volatility,
			transaction_count, recommendation, reasoning, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, analysis.ClientID, analysis.DisplayName, string(analysis.Category),
		string(analysis.Pattern.PatternType), analysis.Pattern.Confidence,
		frequencyDays, string(analysis.Amounts.PatternType),
		analysis.Amounts.Average, analysis.Amounts.Volatility,
		analysis.TransactionCount, string(analysis.Recommendation),
		analysis.Reasoning, analysis.AnalyzedAt.UTC())

	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	return nil
}

// GetAnalyses returns the latest analysis per display name for a client.
func (s *SQLiteStorage) GetAnalyses(ctx context.Context, clientID string) ([]model.VendorAnalysis, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT client_id, display_name, category, pattern_type, confidence,
			frequency_days, amount_pattern, average_amount, volatility,
			transaction_count, recommendation, reasoning, analyzed_at
		FROM analyses
		WHERE client_id = ?
			AND id IN (SELECT MAX(id) FROM analyses WHERE client_id = ? GROUP BY display_name)
		ORDER BY display_name
	`, clientID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanAnalyses(rows)
}

// GetAnalysesByRecommendation returns the latest analyses carrying any of the
// given recommendations, for review-page generation.
func (s *SQLiteStorage) GetAnalysesByRecommendation(ctx context.Context, clientID string, recommendations []model.Recommendation) ([]model.VendorAnalysis, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}
	if len(recommendations) == 0 {
		return nil, fmt.Errorf("%w: recommendations", ErrEmptySlice)
	}

	placeholders := make([]string, len(recommendations))
	args := []any{clientID, clientID}
	for i, rec := range recommendations {
		placeholders[i] = "?"
		args = append(args, string(rec))
	}

	query := fmt.Sprintf(`
		SELECT client_id, display_name, category, pattern_type, confidence,
			frequency_days, amount_pattern, average_amount, volatility,
			transaction_count, recommendation, reasoning, analyzed_at
		FROM analyses
		WHERE client_id = ?
			AND id IN (SELECT MAX(id) FROM analyses WHERE client_id = ? GROUP BY display_name)
			AND recommendation IN (%s)
		ORDER BY confidence ASC, display_name
	`, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses by recommendation: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanAnalyses(rows)
}

func scanAnalyses(rows *sql.Rows) ([]model.VendorAnalysis, error) {
	var analyses []model.VendorAnalysis
	for rows.Next() {
		var a model.VendorAnalysis
		var frequencyDays sql.NullInt64
		var reasoning sql.NullString

		err := rows.Scan(
			&a.ClientID,
			&a.DisplayName,
			&a.Category,
			&a.Pattern.PatternType,
			&a.Pattern.Confidence,
			&frequencyDays,
			&a.Amounts.PatternType,
			&a.Amounts.Average,
			&a.Amounts.Volatility,
			&a.TransactionCount,
			&a.Recommendation,
			&reasoning,
			&a.AnalyzedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}

		if frequencyDays.Valid {
			d := int(frequencyDays.Int64)
			a.Pattern.FrequencyDays = &d
		}
		a.Reasoning = reasoning.String
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}
