package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// CSVMappingRepo stores per-bank CSV parsing configurations.
type CSVMappingRepo struct{ db *sql.DB }

func NewCSVMappingRepo(db *sql.DB) *CSVMappingRepo { return &CSVMappingRepo{db: db} }

func (r *CSVMappingRepo) Upsert(ctx context.Context, m CSVMapping) error {
	columns, err := json.Marshal(m.Columns)
	if err != nil {
		return fmt.Errorf("marshal mapping columns: %w", err)
	}
	otherNote, err := json.Marshal(emptyAsList(m.OtherNoteColumns))
	if err != nil {
		return fmt.Errorf("marshal other_note columns: %w", err)
	}
	catFields, err := json.Marshal(emptyAsList(m.CategorizationFields))
	if err != nil {
		return fmt.Errorf("marshal categorization fields: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO csv_mappings(
			id, name, encoding, delimiter, header_row, date_format,
			submission_date_format, default_currency, columns,
			other_note_columns, categorization_fields)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			encoding = excluded.encoding,
			delimiter = excluded.delimiter,
			header_row = excluded.header_row,
			date_format = excluded.date_format,
			submission_date_format = excluded.submission_date_format,
			default_currency = excluded.default_currency,
			columns = excluded.columns,
			other_note_columns = excluded.other_note_columns,
			categorization_fields = excluded.categorization_fields`,
		m.ID, m.Name, m.Encoding, m.Delimiter, m.HeaderRow, m.DateFormat,
		m.SubmissionDateFormat, m.DefaultCurrency, string(columns),
		string(otherNote), string(catFields))
	if err != nil {
		return fmt.Errorf("upsert csv mapping %q: %w", m.Name, err)
	}
	return nil
}

func (r *CSVMappingRepo) Get(ctx context.Context, id string) (*CSVMapping, error) {
	row := r.db.QueryRowContext(ctx, mappingSelect+` WHERE id = ?`, id)
	m, err := scanMapping(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get csv mapping %s: %w", id, err)
	}
	return &m, nil
}

func (r *CSVMappingRepo) GetByName(ctx context.Context, name string) (*CSVMapping, error) {
	row := r.db.QueryRowContext(ctx, mappingSelect+` WHERE name = ?`, name)
	m, err := scanMapping(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get csv mapping %q: %w", name, err)
	}
	return &m, nil
}

func (r *CSVMappingRepo) List(ctx context.Context) ([]CSVMapping, error) {
	rows, err := r.db.QueryContext(ctx, mappingSelect+` ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list csv mappings: %w", err)
	}
	defer rows.Close()

	var out []CSVMapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("scan csv mapping: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const mappingSelect = `
	SELECT id, name, encoding, delimiter, header_row, date_format,
		submission_date_format, default_currency, columns,
		other_note_columns, categorization_fields
	FROM csv_mappings`

func scanMapping(row rowScanner) (CSVMapping, error) {
	var m CSVMapping
	var columns, otherNote, catFields string
	err := row.Scan(&m.ID, &m.Name, &m.Encoding, &m.Delimiter, &m.HeaderRow,
		&m.DateFormat, &m.SubmissionDateFormat, &m.DefaultCurrency,
		&columns, &otherNote, &catFields)
	if err != nil {
		return CSVMapping{}, err
	}
	if err := json.Unmarshal([]byte(columns), &m.Columns); err != nil {
		return CSVMapping{}, fmt.Errorf("unmarshal columns of mapping %q: %w", m.Name, err)
	}
	if err := json.Unmarshal([]byte(otherNote), &m.OtherNoteColumns); err != nil {
		return CSVMapping{}, fmt.Errorf("unmarshal other_note columns of mapping %q: %w", m.Name, err)
	}
	if err := json.Unmarshal([]byte(catFields), &m.CategorizationFields); err != nil {
		return CSVMapping{}, fmt.Errorf("unmarshal categorization fields of mapping %q: %w", m.Name, err)
	}
	return m, nil
}

func emptyAsList(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
