package project

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"xpvcc/internal/editor"
)

// ID identifies a project.
type ID uuid.UUID

// NewID returns a random project ID.
func NewID() ID {
	return ID(uuid.New())
}

// ParseID parses the canonical UUID form.
func ParseID(value string) (ID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return ID{}, fmt.Errorf("invalid project id %q: %w", value, err)
	}
	return ID(parsed), nil
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Kind is the SDK flavour of a project.
type Kind string

const (
	KindAvatar3 Kind = "avatar3"
	KindWorld3  Kind = "world3"
)

// TemplateKind selects a new-project template.
type TemplateKind string

const (
	TemplateAvatar3Unity2019 TemplateKind = "avatar3_unity2019"
	TemplateWorld3Unity2019  TemplateKind = "world3_unity2019"
	TemplateAvatar3Unity2022 TemplateKind = "avatar3_unity2022"
	TemplateWorld3Unity2022  TemplateKind = "world3_unity2022"
)

type template struct {
	version editor.SupportedVersion
	kind    Kind
}

var templates = map[TemplateKind]template{
	TemplateAvatar3Unity2019: {version: editor.R2019_4_31, kind: KindAvatar3},
	TemplateWorld3Unity2019:  {version: editor.R2019_4_31, kind: KindWorld3},
	TemplateAvatar3Unity2022: {version: editor.R2022_3_6, kind: KindAvatar3},
	TemplateWorld3Unity2022:  {version: editor.R2022_3_6, kind: KindWorld3},
}

// TemplateKinds lists every template in a stable order.
func TemplateKinds() []TemplateKind {
	return []TemplateKind{
		TemplateAvatar3Unity2019,
		TemplateWorld3Unity2019,
		TemplateAvatar3Unity2022,
		TemplateWorld3Unity2022,
	}
}

// ParseTemplateKind accepts the snake-case name or the CamelCase form
// (Avatar3WithUnity2019), case-insensitively.
func ParseTemplateKind(value string) (TemplateKind, error) {
	folded := cases.Fold().String(strings.TrimSpace(value))
	folded = strings.ReplaceAll(folded, "withunity", "_unity")
	folded = strings.ReplaceAll(folded, "-", "_")
	kind := TemplateKind(folded)
	if _, ok := templates[kind]; !ok {
		return "", fmt.Errorf("unsupported template kind %q", value)
	}
	return kind, nil
}

// Version is the editor version the template is built for.
func (t TemplateKind) Version() editor.SupportedVersion {
	return templates[t].version
}

// Kind is the project flavour the template produces.
func (t TemplateKind) Kind() Kind {
	return templates[t].kind
}
