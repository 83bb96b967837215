package store

import (
	"database/sql"
	"time"

	"xpvcc/internal/editor"
)

const dispatchColumns = "token_digest, token_kind, pid, editor_version, target, host, prefer_hub, source_url, installer_path, issued_at, redeemed_at"

const installationColumns = "editor_version, host, target, path, token_digest, confirmed_at"

type rowScanner interface{ Scan(dest ...any) error }

func scanDispatch(scanner rowScanner) (*Dispatch, error) {
	var (
		digest        string
		kind          string
		pid           sql.NullInt64
		version       string
		target        string
		host          string
		preferHub     int
		sourceURL     sql.NullString
		installerPath sql.NullString
		issuedRaw     string
		redeemedRaw   sql.NullString
	)
	if err := scanner.Scan(
		&digest,
		&kind,
		&pid,
		&version,
		&target,
		&host,
		&preferHub,
		&sourceURL,
		&installerPath,
		&issuedRaw,
		&redeemedRaw,
	); err != nil {
		return nil, err
	}

	dispatch := &Dispatch{
		TokenDigest:   digest,
		TokenKind:     kind,
		PID:           int(pid.Int64),
		Version:       editor.SupportedVersion(version),
		Target:        editor.PlatformTarget(target),
		Host:          editor.Host(host),
		PreferHub:     preferHub != 0,
		SourceURL:     sourceURL.String,
		InstallerPath: installerPath.String,
		IssuedAt:      parseTime(issuedRaw),
	}
	if redeemedRaw.Valid {
		redeemed := parseTime(redeemedRaw.String)
		dispatch.RedeemedAt = &redeemed
	}
	return dispatch, nil
}

func scanInstallation(scanner rowScanner) (*Installation, error) {
	var (
		version      string
		host         string
		target       string
		path         string
		digest       string
		confirmedRaw string
	)
	if err := scanner.Scan(&version, &host, &target, &path, &digest, &confirmedRaw); err != nil {
		return nil, err
	}
	return &Installation{
		Version:     editor.SupportedVersion(version),
		Host:        editor.Host(host),
		Target:      editor.PlatformTarget(target),
		Path:        path,
		TokenDigest: digest,
		ConfirmedAt: parseTime(confirmedRaw),
	}, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullablePID(pid int) any {
	if pid <= 0 {
		return nil
	}
	return pid
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
