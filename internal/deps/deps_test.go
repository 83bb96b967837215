package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank command status: %#v", results[2])
	}
	if HubAvailable(results) {
		t.Fatal("expected HubAvailable false when any requirement is missing")
	}
	if !HubAvailable(results[:1]) {
		t.Fatal("expected HubAvailable true when all requirements resolve")
	}
}

func TestHubRequirementsPerOS(t *testing.T) {
	tests := map[string]string{
		"linux":   "xdg-open",
		"darwin":  "open",
		"windows": "rundll32",
	}
	for goos, command := range tests {
		reqs := hubRequirementsFor(goos)
		if len(reqs) == 0 || reqs[0].Command != command {
			t.Errorf("%s: expected first command %q, got %#v", goos, command, reqs)
		}
		for _, req := range reqs {
			if !req.Optional {
				t.Errorf("%s: hub requirement %s must be optional", goos, req.Name)
			}
		}
	}
	if reqs := hubRequirementsFor("plan9"); reqs != nil {
		t.Errorf("expected no requirements for unsupported OS, got %#v", reqs)
	}
}
