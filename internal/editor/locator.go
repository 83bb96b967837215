package editor

import "strings"

// DefaultDownloadBase is the root Unity serves editor installers from.
const DefaultDownloadBase = "https://download.unity3d.com/download_unity"

// HubScheme is the URI scheme Unity Hub registers with the OS.
const HubScheme = "unityhub"

type naming struct {
	executable string
	suffix     string
}

var hostNaming = map[Host]naming{
	HostWindows: {executable: "UnityDownloadAssistant", suffix: ".exe"},
	HostLinux:   {executable: "UnitySetup", suffix: ""},
	HostMacOS:   {executable: "UnityDownloadAssistant", suffix: ".dmg"},
}

// ArtifactFileName returns the installer file name for host and version,
// e.g. UnitySetup-2022.3.6f1.
func ArtifactFileName(host Host, version SupportedVersion) string {
	n := hostNaming[host]
	return n.executable + "-" + version.QualifiedVersion() + n.suffix
}

// ArtifactSuffix returns the extension the host needs to launch the installer.
func ArtifactSuffix(host Host) string {
	return hostNaming[host].suffix
}

// Locate returns the download URL of the installer from Unity's CDN.
func Locate(host Host, version SupportedVersion) string {
	return LocateFrom(DefaultDownloadBase, host, version)
}

// LocateFrom applies the same naming table to a mirror rooted at base.
func LocateFrom(base string, host Host, version SupportedVersion) string {
	base = strings.TrimRight(base, "/")
	var b strings.Builder
	b.Grow(len(base) + 64)
	b.WriteString(base)
	b.WriteByte('/')
	b.WriteString(version.BuildHash())
	b.WriteByte('/')
	b.WriteString(ArtifactFileName(host, version))
	return b.String()
}

// HubDeepLink returns the unityhub:// URI that asks Unity Hub to install version.
func HubDeepLink(version SupportedVersion) string {
	return HubScheme + "://" + version.QualifiedVersion() + "/" + version.BuildHash()
}
