package api

import "strings"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// InstallRequest asks the daemon to install an editor.
type InstallRequest struct {
	Version   string `json:"version"`
	Target    string `json:"target,omitempty"`
	Host      string `json:"host,omitempty"`
	PreferHub bool   `json:"prefer_hub,omitempty"`
}

// InstallResponse carries the completion token for a dispatched install.
type InstallResponse struct {
	CompletionToken string `json:"completionToken"`
	TokenKind       string `json:"tokenKind"`
	PID             int    `json:"pid,omitempty"`
	Message         string `json:"message"`
}

// ConfirmRequest reports that an install finished.
type ConfirmRequest struct {
	InstalledPath        string `json:"installed_path,omitempty"`
	InstalledPathCamel   string `json:"installedPath,omitempty"`
	CompletionToken      string `json:"completion_token,omitempty"`
	CompletionTokenCamel string `json:"completionToken,omitempty"`
}

// Path returns the claimed install directory under either spelling.
func (r ConfirmRequest) Path() string {
	return firstNonEmpty(r.InstalledPath, r.InstalledPathCamel)
}

// Token returns the completion token under either spelling.
func (r ConfirmRequest) Token() string {
	return firstNonEmpty(r.CompletionToken, r.CompletionTokenCamel)
}

// ConfirmResponse acknowledges a recorded installation.
type ConfirmResponse struct {
	Installation Installation `json:"installation"`
	Message      string       `json:"message"`
}

// Installation is a confirmed editor install location.
type Installation struct {
	Version          string `json:"version"`
	QualifiedVersion string `json:"qualifiedVersion"`
	Host             string `json:"host"`
	Target           string `json:"target"`
	Path             string `json:"path"`
	ConfirmedAt      string `json:"confirmedAt,omitempty"`
}

// InstallationListResponse wraps every confirmed installation.
type InstallationListResponse struct {
	Installations []Installation `json:"installations"`
}

// InstallationResponse wraps a single installation lookup.
type InstallationResponse struct {
	Installation Installation `json:"installation"`
}

// PendingDispatch is an issued completion token that has not been confirmed.
type PendingDispatch struct {
	TokenKind        string `json:"tokenKind"`
	PID              int    `json:"pid,omitempty"`
	Version          string `json:"version"`
	QualifiedVersion string `json:"qualifiedVersion"`
	Host             string `json:"host"`
	Target           string `json:"target"`
	IssuedAt         string `json:"issuedAt,omitempty"`
	Running          bool   `json:"running"`
	Detail           string `json:"detail,omitempty"`
	ObservedAt       string `json:"observedAt,omitempty"`
}

// PendingDispatchListResponse wraps every unconfirmed dispatch.
type PendingDispatchListResponse struct {
	Dispatches []PendingDispatch `json:"dispatches"`
}

// VersionInfo describes one catalog entry.
type VersionInfo struct {
	Version          string            `json:"version"`
	QualifiedVersion string            `json:"qualifiedVersion"`
	BuildHash        string            `json:"buildHash"`
	HubLink          string            `json:"hubLink"`
	Artifacts        map[string]string `json:"artifacts"`
}

// VersionListResponse wraps the catalog.
type VersionListResponse struct {
	Versions []VersionInfo `json:"versions"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running            bool               `json:"running"`
	PID                int                `json:"pid"`
	Bind               string             `json:"bind"`
	StorePath          string             `json:"storePath"`
	LockFilePath       string             `json:"lockFilePath"`
	HubEnabled         bool               `json:"hubEnabled"`
	PendingDispatches  int                `json:"pendingDispatches"`
	RedeemedDispatches int                `json:"redeemedDispatches"`
	Installations      int                `json:"installations"`
	Dependencies       []DependencyStatus `json:"dependencies"`
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NotImplementedResponse answers the project endpoints.
type NotImplementedResponse struct {
	Error     string `json:"error"`
	Operation string `json:"operation"`
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
