package api

import (
	"fmt"

	"xpvcc/internal/deps"
	"xpvcc/internal/editor"
	"xpvcc/internal/install"
	"xpvcc/internal/store"
	"xpvcc/internal/token"
)

// FromInstallation converts a store record to its API representation.
func FromInstallation(installation store.Installation) Installation {
	dto := Installation{
		Version:          string(installation.Version),
		QualifiedVersion: installation.Version.QualifiedVersion(),
		Host:             string(installation.Host),
		Target:           string(installation.Target),
		Path:             installation.Path,
	}
	if !installation.ConfirmedAt.IsZero() {
		dto.ConfirmedAt = installation.ConfirmedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromInstallations converts a slice of store records, never returning nil.
func FromInstallations(installations []store.Installation) []Installation {
	out := make([]Installation, 0, len(installations))
	for _, installation := range installations {
		out = append(out, FromInstallation(installation))
	}
	return out
}

// FromPendingInstalls converts unconfirmed dispatches, never returning nil.
func FromPendingInstalls(pending []install.PendingInstall) []PendingDispatch {
	out := make([]PendingDispatch, 0, len(pending))
	for _, p := range pending {
		dto := PendingDispatch{
			TokenKind:        p.TokenKind,
			PID:              p.PID,
			Version:          string(p.Version),
			QualifiedVersion: p.Version.QualifiedVersion(),
			Host:             string(p.Host),
			Target:           string(p.Target),
			Running:          p.Running,
			Detail:           p.Detail,
		}
		if !p.IssuedAt.IsZero() {
			dto.IssuedAt = p.IssuedAt.UTC().Format(dateTimeFormat)
		}
		if !p.ObservedAt.IsZero() {
			dto.ObservedAt = p.ObservedAt.UTC().Format(dateTimeFormat)
		}
		out = append(out, dto)
	}
	return out
}

// NewInstallResponse builds the response for an issued token.
func NewInstallResponse(tok token.Token, encoded string) InstallResponse {
	resp := InstallResponse{
		CompletionToken: encoded,
		TokenKind:       string(tok.Kind()),
	}
	switch t := tok.(type) {
	case token.ProcessHandle:
		resp.PID = t.PID
		resp.Message = fmt.Sprintf("installer started (pid = %d); confirm once it exits", t.PID)
	case token.Delegated:
		resp.Message = "install delegated to Unity Hub; confirm once it finishes"
	}
	return resp
}

// VersionCatalog lists every supported version with artifact URLs rooted at
// baseURL.
func VersionCatalog(baseURL string) []VersionInfo {
	versions := editor.Versions()
	out := make([]VersionInfo, 0, len(versions))
	for _, version := range versions {
		artifacts := make(map[string]string, len(editor.Hosts()))
		for _, host := range editor.Hosts() {
			artifacts[string(host)] = editor.LocateFrom(baseURL, host, version)
		}
		out = append(out, VersionInfo{
			Version:          string(version),
			QualifiedVersion: version.QualifiedVersion(),
			BuildHash:        version.BuildHash(),
			HubLink:          editor.HubDeepLink(version),
			Artifacts:        artifacts,
		})
	}
	return out
}

// FromDependencyStatuses converts dependency checks.
func FromDependencyStatuses(statuses []deps.Status) []DependencyStatus {
	out := make([]DependencyStatus, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, DependencyStatus{
			Name:        status.Name,
			Command:     status.Command,
			Description: status.Description,
			Optional:    status.Optional,
			Available:   status.Available,
			Detail:      status.Detail,
		})
	}
	return out
}
