package editor

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// SupportedVersion identifies one editor build from the catalog.
type SupportedVersion string

const (
	R2019_4_31 SupportedVersion = "R2019_4_31"
	R2022_3_6  SupportedVersion = "R2022_3_6"
)

type build struct {
	qualified string
	hash      string
}

var catalog = map[SupportedVersion]build{
	R2019_4_31: {qualified: "2019.4.31f1", hash: "bd5abf232a62"},
	R2022_3_6:  {qualified: "2022.3.6f1", hash: "b9e6e7e9fa2d"},
}

// Versions returns every catalog entry ordered by qualified version.
func Versions() []SupportedVersion {
	out := make([]SupportedVersion, 0, len(catalog))
	for v := range catalog {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b SupportedVersion) int {
		return strings.Compare(a.QualifiedVersion(), b.QualifiedVersion())
	})
	return out
}

// Valid reports whether v is part of the compiled catalog.
func (v SupportedVersion) Valid() bool {
	_, ok := catalog[v]
	return ok
}

// QualifiedVersion returns the human-readable editor version, e.g. 2022.3.6f1.
func (v SupportedVersion) QualifiedVersion() string {
	return catalog[v].qualified
}

// BuildHash returns the content identifier Unity uses to key the build.
func (v SupportedVersion) BuildHash() string {
	return catalog[v].hash
}

func (v SupportedVersion) String() string {
	if q := v.QualifiedVersion(); q != "" {
		return q
	}
	return string(v)
}

// ParseVersion accepts either the catalog name (R2022_3_6) or the qualified
// version (2022.3.6f1).
func ParseVersion(value string) (SupportedVersion, error) {
	folded := fold(value)
	if folded == "" {
		return "", fmt.Errorf("editor version is required")
	}
	for v, b := range catalog {
		if folded == fold(string(v)) || folded == fold(b.qualified) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unsupported editor version %q", strings.TrimSpace(value))
}

// MarshalText implements encoding.TextMarshaler using the qualified version.
func (v SupportedVersion) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("unsupported editor version %q", string(v))
	}
	return []byte(v.QualifiedVersion()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler via ParseVersion.
func (v *SupportedVersion) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// fold builds a fresh Caser per call; Casers carry state and must not be
// shared between goroutines.
func fold(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}
