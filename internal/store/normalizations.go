package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/critnf/internal/criteria"
)

// Normalization is one recorded normal-form conversion.
type Normalization struct {
	InputFingerprint  string
	Form              string
	InputJSON         string
	OutputJSON        string
	OutputText        string
	OutputFingerprint string
	Clauses           int
}

// NewNormalization builds the record for converting input to output in the
// given form. Fingerprints and JSON come from the canonical encoding.
func NewNormalization(form criteria.Form, input, output criteria.Criteria, clauses int) (Normalization, error) {
	inJSON, err := criteria.CanonicalJSON(input)
	if err != nil {
		return Normalization{}, fmt.Errorf("marshal input: %w", err)
	}
	outJSON, err := criteria.CanonicalJSON(output)
	if err != nil {
		return Normalization{}, fmt.Errorf("marshal output: %w", err)
	}
	return Normalization{
		InputFingerprint:  criteria.Fingerprint(input),
		Form:              form.String(),
		InputJSON:         string(inJSON),
		OutputJSON:        string(outJSON),
		OutputText:        output.String(),
		OutputFingerprint: criteria.Fingerprint(output),
		Clauses:           clauses,
	}, nil
}

// WriteNormalization records a conversion.
// Uses ON CONFLICT DO NOTHING for idempotency: normalization is a pure
// function of (input, form), so the first record for a key stands.
func (s *Store) WriteNormalization(ctx context.Context, n Normalization) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO normalizations
		(input_fingerprint, form, input_json, output_json, output_text, output_fingerprint, clauses)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(input_fingerprint, form) DO NOTHING
	`,
		n.InputFingerprint,
		n.Form,
		n.InputJSON,
		n.OutputJSON,
		n.OutputText,
		n.OutputFingerprint,
		n.Clauses,
	)
	if err != nil {
		return fmt.Errorf("write normalization: %w", err)
	}
	return nil
}

// ReadNormalization looks up the conversion of the input with the given
// fingerprint. The boolean is false when no record exists.
func (s *Store) ReadNormalization(ctx context.Context, inputFingerprint string, form criteria.Form) (Normalization, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT input_fingerprint, form, input_json, output_json, output_text, output_fingerprint, clauses
		FROM normalizations
		WHERE input_fingerprint = ? AND form = ?
	`, inputFingerprint, form.String())

	n, err := scanNormalization(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Normalization{}, false, nil
	}
	if err != nil {
		return Normalization{}, false, err
	}
	return n, true, nil
}

// ListNormalizations returns every record ordered by
// (input_fingerprint, form) COLLATE BINARY.
//
// Returns an empty slice (not nil) if the table is empty.
func (s *Store) ListNormalizations(ctx context.Context) ([]Normalization, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT input_fingerprint, form, input_json, output_json, output_text, output_fingerprint, clauses
		FROM normalizations
		ORDER BY input_fingerprint COLLATE BINARY ASC, form COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query normalizations: %w", err)
	}
	defer rows.Close()

	out := []Normalization{}
	for rows.Next() {
		n, err := scanNormalization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate normalizations: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNormalization(row scanner) (Normalization, error) {
	var n Normalization
	err := row.Scan(
		&n.InputFingerprint,
		&n.Form,
		&n.InputJSON,
		&n.OutputJSON,
		&n.OutputText,
		&n.OutputFingerprint,
		&n.Clauses,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Normalization{}, err
	}
	if err != nil {
		return Normalization{}, fmt.Errorf("scan normalization: %w", err)
	}
	return n, nil
}
