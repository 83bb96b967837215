package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RecordDispatch stores a newly issued completion token. A digest that already
// exists, which happens when the OS reuses an installer PID, is overwritten
// and becomes redeemable again.
func (s *Store) RecordDispatch(ctx context.Context, d Dispatch) error {
	if strings.TrimSpace(d.TokenDigest) == "" {
		return errors.New("record dispatch: token digest is required")
	}
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO dispatches (`+dispatchColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
        ON CONFLICT(token_digest) DO UPDATE SET
            token_kind = excluded.token_kind,
            pid = excluded.pid,
            editor_version = excluded.editor_version,
            target = excluded.target,
            host = excluded.host,
            prefer_hub = excluded.prefer_hub,
            source_url = excluded.source_url,
            installer_path = excluded.installer_path,
            issued_at = excluded.issued_at,
            redeemed_at = NULL`,
		d.TokenDigest,
		d.TokenKind,
		nullablePID(d.PID),
		string(d.Version),
		string(d.Target),
		string(d.Host),
		boolToInt(d.PreferHub),
		nullableString(d.SourceURL),
		nullableString(d.InstallerPath),
		formatTime(d.IssuedAt),
	); err != nil {
		return fmt.Errorf("record dispatch: %w", err)
	}
	return nil
}

// Dispatch returns the dispatch for a token digest, or nil when none exists.
func (s *Store) Dispatch(ctx context.Context, digest string) (*Dispatch, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+dispatchColumns+` FROM dispatches WHERE token_digest = ?`, digest)
	dispatch, err := scanDispatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dispatch: %w", err)
	}
	return dispatch, nil
}

// PendingDispatches lists unredeemed dispatches, oldest first.
func (s *Store) PendingDispatches(ctx context.Context) ([]Dispatch, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+dispatchColumns+` FROM dispatches WHERE redeemed_at IS NULL ORDER BY issued_at`)
	if err != nil {
		return nil, fmt.Errorf("list pending dispatches: %w", err)
	}
	defer rows.Close()

	var out []Dispatch
	for rows.Next() {
		dispatch, err := scanDispatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		out = append(out, *dispatch)
	}
	return out, rows.Err()
}

// Redeem marks the dispatch for digest as confirmed and records path as the
// installation for the dispatched version and host. Both writes commit
// together. It returns ErrUnknownToken or ErrAlreadyRedeemed without writing
// anything when the dispatch is missing or was already confirmed.
func (s *Store) Redeem(ctx context.Context, digest, path string, now time.Time) (*Installation, error) {
	ctx = ensureContext(ctx)
	stamp := formatTime(now)
	var installation *Installation
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+dispatchColumns+` FROM dispatches WHERE token_digest = ?`, digest)
		dispatch, err := scanDispatch(row)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnknownToken
		}
		if err != nil {
			return fmt.Errorf("load dispatch: %w", err)
		}
		if dispatch.Redeemed() {
			return ErrAlreadyRedeemed
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE dispatches SET redeemed_at = ? WHERE token_digest = ? AND redeemed_at IS NULL`,
			stamp, digest)
		if err != nil {
			return fmt.Errorf("mark dispatch redeemed: %w", err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return ErrAlreadyRedeemed
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO installations (`+installationColumns+`)
            VALUES (?, ?, ?, ?, ?, ?)
            ON CONFLICT(editor_version, host) DO UPDATE SET
                target = excluded.target,
                path = excluded.path,
                token_digest = excluded.token_digest,
                confirmed_at = excluded.confirmed_at`,
			string(dispatch.Version),
			string(dispatch.Host),
			string(dispatch.Target),
			path,
			digest,
			stamp,
		); err != nil {
			return fmt.Errorf("record installation: %w", err)
		}

		installation = &Installation{
			Version:     dispatch.Version,
			Host:        dispatch.Host,
			Target:      dispatch.Target,
			Path:        path,
			TokenDigest: digest,
			ConfirmedAt: parseTime(stamp),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return installation, nil
}

// Stats counts dispatches and installations.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	if err := s.db.QueryRowContext(ctx,
		`SELECT
            COALESCE(SUM(CASE WHEN redeemed_at IS NULL THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN redeemed_at IS NOT NULL THEN 1 ELSE 0 END), 0)
        FROM dispatches`,
	).Scan(&stats.PendingDispatches, &stats.RedeemedDispatches); err != nil {
		return Stats{}, fmt.Errorf("count dispatches: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM installations`).Scan(&stats.Installations); err != nil {
		return Stats{}, fmt.Errorf("count installations: %w", err)
	}
	return stats, nil
}
