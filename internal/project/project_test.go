package project_test

import (
	"testing"

	"xpvcc/internal/editor"
	"xpvcc/internal/project"
)

func TestParseID(t *testing.T) {
	id := project.NewID()
	parsed, err := project.ParseID(id.String())
	if err != nil {
		t.Fatalf("ParseID returned error: %v", err)
	}
	if parsed != id {
		t.Fatalf("round trip mismatch: %s != %s", parsed, id)
	}
	for _, bad := range []string{"", "not-a-uuid", "1234"} {
		if _, err := project.ParseID(bad); err == nil {
			t.Errorf("ParseID(%q) expected error", bad)
		}
	}
}

func TestParseTemplateKind(t *testing.T) {
	tests := []struct {
		input   string
		want    project.TemplateKind
		version editor.SupportedVersion
		kind    project.Kind
	}{
		{"avatar3_unity2019", project.TemplateAvatar3Unity2019, editor.R2019_4_31, project.KindAvatar3},
		{"World3WithUnity2019", project.TemplateWorld3Unity2019, editor.R2019_4_31, project.KindWorld3},
		{"Avatar3WithUnity2022", project.TemplateAvatar3Unity2022, editor.R2022_3_6, project.KindAvatar3},
		{"world3-unity2022", project.TemplateWorld3Unity2022, editor.R2022_3_6, project.KindWorld3},
	}
	for _, tc := range tests {
		got, err := project.ParseTemplateKind(tc.input)
		if err != nil {
			t.Errorf("ParseTemplateKind(%q) returned error: %v", tc.input, err)
			continue
		}
		if got != tc.want || got.Version() != tc.version || got.Kind() != tc.kind {
			t.Errorf("ParseTemplateKind(%q) = %s (%s, %s)", tc.input, got, got.Version(), got.Kind())
		}
	}
	if _, err := project.ParseTemplateKind("avatar2_unity2018"); err == nil {
		t.Error("expected error for unknown template")
	}
	if len(project.TemplateKinds()) != 4 {
		t.Errorf("expected four template kinds")
	}
}
