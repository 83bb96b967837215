package deps

import (
	"runtime"

	"xpvcc/internal/editor"
)

// HubRequirements lists the programs needed to hand unityhub:// links to
// Unity Hub on the running OS. All are optional: without them installs fall
// back to the direct download path.
func HubRequirements() []Requirement {
	return hubRequirementsFor(runtime.GOOS)
}

func hubRequirementsFor(goos string) []Requirement {
	host, ok := editor.HostFromGOOS(goos)
	if !ok {
		return nil
	}
	switch host {
	case editor.HostWindows:
		return []Requirement{{
			Name:        "URL handler",
			Command:     "rundll32",
			Description: "Opens unityhub:// links",
			Optional:    true,
		}}
	case editor.HostMacOS:
		return []Requirement{{
			Name:        "URL handler",
			Command:     "open",
			Description: "Opens unityhub:// links",
			Optional:    true,
		}}
	default:
		return []Requirement{
			{
				Name:        "URL handler",
				Command:     "xdg-open",
				Description: "Opens unityhub:// links",
				Optional:    true,
			},
			{
				Name:        "Unity Hub",
				Command:     "unityhub",
				Description: "Handles unityhub:// install links",
				Optional:    true,
			},
		}
	}
}

// HubAvailable reports whether every hub requirement resolved.
func HubAvailable(statuses []Status) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, status := range statuses {
		if !status.Available {
			return false
		}
	}
	return true
}
