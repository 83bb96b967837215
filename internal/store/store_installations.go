package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"xpvcc/internal/editor"
)

// Installation returns the confirmed install of version on host, or nil.
func (s *Store) Installation(ctx context.Context, version editor.SupportedVersion, host editor.Host) (*Installation, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+installationColumns+` FROM installations WHERE editor_version = ? AND host = ?`,
		string(version), string(host))
	installation, err := scanInstallation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get installation: %w", err)
	}
	return installation, nil
}

// Installations lists every confirmed install ordered by version and host.
func (s *Store) Installations(ctx context.Context) ([]Installation, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+installationColumns+` FROM installations ORDER BY editor_version, host`)
	if err != nil {
		return nil, fmt.Errorf("list installations: %w", err)
	}
	defer rows.Close()

	var out []Installation
	for rows.Next() {
		installation, err := scanInstallation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan installation: %w", err)
		}
		out = append(out, *installation)
	}
	return out, rows.Err()
}
