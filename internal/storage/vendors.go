package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cashwise/flowcast/internal/common"
	"github.com/cashwise/flowcast/internal/model"
)

// GetVendor retrieves a vendor mapping by raw vendor name.
func (s *SQLiteStorage) GetVendor(ctx context.Context, clientID, vendorName string) (*model.Vendor, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}
	if err := validateString(vendorName, "vendorName"); err != nil {
		return nil, err
	}

	var vendor model.Vendor
	var method, frequency, notes sql.NullString
	var day sql.NullInt64
	var amount sql.NullFloat64

	err := s.db.QueryRowContext(ctx, `
		SELECT client_id, vendor_name, display_name, category, is_inventory, last_updated,
			forecast_method, forecast_frequency, forecast_day, forecast_amount,
			forecast_confidence, forecast_notes
		FROM vendors
		WHERE client_id = ? AND vendor_name = ?
	`, clientID, vendorName).Scan(
		&vendor.ClientID,
		&vendor.VendorName,
		&vendor.DisplayName,
		&vendor.Category,
		&vendor.IsInventory,
		&vendor.LastUpdated,
		&method,
		&frequency,
		&day,
		&amount,
		&vendor.ForecastConfidence,
		&notes,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	vendor.ForecastMethod = method.String
	vendor.ForecastFrequency = frequency.String
	vendor.ForecastNotes = notes.String
	if day.Valid {
		d := int(day.Int64)
		vendor.ForecastDay = &d
	}
	if amount.Valid {
		a := amount.Float64
		vendor.ForecastAmount = &a
	}

	return &vendor, nil
}

// SaveVendor inserts or updates a vendor mapping.
func (s *SQLiteStorage) SaveVendor(ctx context.Context, vendor *model.Vendor) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateVendor(vendor); err != nil {
		return err
	}

	if vendor.LastUpdated.IsZero() {
		vendor.LastUpdated = time.Now().UTC()
	}
	if vendor.Category == "" {
		vendor.Category = model.CategoryOther
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vendors (client_id, vendor_name, display_name, category, is_inventory, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id, vendor_name) DO UPDATE SET
			display_name = excluded.display_name,
			category = excluded.category,
			is_inventory = excluded.is_inventory,
			last_updated = excluded.last_updated
	`, vendor.ClientID, vendor.VendorName, vendor.DisplayName, vendor.Category,
		vendor.IsInventory, vendor.LastUpdated)

	if err != nil {
		return fmt.Errorf("failed to save vendor: %w", err)
	}

	return nil
}

// GetVendorGroups returns the client's vendor groups: one entry per display
// name, carrying its category and member vendor names. Transactions are
// fetched separately per group.
func (s *SQLiteStorage) GetVendorGroups(ctx context.Context, clientID string) ([]model.VendorGroup, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT display_name, category, vendor_name, is_inventory
		FROM vendors
		WHERE client_id = ?
		ORDER BY display_name, vendor_name
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendor groups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var groups []model.VendorGroup
	index := make(map[string]int)

	for rows.Next() {
		var displayName, vendorName string
		var category model.BusinessCategory
		var isInventory bool
		if err := rows.Scan(&displayName, &category, &vendorName, &isInventory); err != nil {
			return nil, fmt.Errorf("failed to scan vendor group: %w", err)
		}

		i, ok := index[displayName]
		if !ok {
			i = len(groups)
			index[displayName] = i
			groups = append(groups, model.VendorGroup{
				DisplayName: displayName,
				Category:    category,
			})
		}
		groups[i].VendorNames = append(groups[i].VendorNames, vendorName)
		if isInventory {
			groups[i].IsInventory = true
		}
	}

	return groups, rows.Err()
}

// GetForecasts returns one vendor row per display name that has a forecast
// configured. Member vendors of a group share forecast values, so any row
// is representative.
func (s *SQLiteStorage) GetForecasts(ctx context.Context, clientID string) ([]model.Vendor, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT client_id, vendor_name, display_name, category, is_inventory, last_updated,
			forecast_method, forecast_frequency, forecast_day, forecast_amount,
			forecast_confidence, forecast_notes
		FROM vendors
		WHERE client_id = ? AND forecast_method IS NOT NULL AND forecast_method != ''
		ORDER BY display_name, vendor_name
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecasts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var forecasts []model.Vendor
	seen := make(map[string]bool)

	for rows.Next() {
		var vendor model.Vendor
		var method, frequency, notes sql.NullString
		var day sql.NullInt64
		var amount sql.NullFloat64

		err := rows.Scan(
			&vendor.ClientID,
			&vendor.VendorName,
			&vendor.DisplayName,
			&vendor.Category,
			&vendor.IsInventory,
			&vendor.LastUpdated,
			&method,
			&frequency,
			&day,
			&amount,
			&vendor.ForecastConfidence,
			&notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forecast: %w", err)
		}

		if seen[vendor.DisplayName] {
			continue
		}
		seen[vendor.DisplayName] = true

		vendor.ForecastMethod = method.String
		vendor.ForecastFrequency = frequency.String
		vendor.ForecastNotes = notes.String
		if day.Valid {
			d := int(day.Int64)
			vendor.ForecastDay = &d
		}
		if amount.Valid {
			a := amount.Float64
			vendor.ForecastAmount = &a
		}

		forecasts = append(forecasts, vendor)
	}

	return forecasts, rows.Err()
}

// UpdateForecastConfig writes a synthesized forecast back onto every vendor
// row sharing the display name.
func (s *SQLiteStorage) UpdateForecastConfig(ctx context.Context, clientID, displayName string, record model.ForecastRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return err
	}
	if err := validateString(displayName, "displayName"); err != nil {
		return err
	}

	var day any
	if record.PaymentDay != nil {
		day = *record.PaymentDay
	}
	var amount any
	if record.ForecastAmount != nil {
		amount = *record.ForecastAmount
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE vendors
		SET forecast_method = ?,
			forecast_frequency = ?,
			forecast_day = ?,
			forecast_amount = ?,
			forecast_confidence = ?,
			forecast_notes = ?,
			last_updated = ?
		WHERE client_id = ? AND display_name = ?
	`, string(record.Method), string(record.Frequency), day, amount,
		record.Confidence, record.Explanation, time.Now().UTC(),
		clientID, displayName)

	if err != nil {
		return fmt.Errorf("failed to update forecast config: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	return nil
}
