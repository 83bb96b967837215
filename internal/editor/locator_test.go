package editor_test

import (
	"testing"

	"xpvcc/internal/editor"
)

var expectedURLs = map[editor.SupportedVersion]map[editor.Host]string{
	editor.R2019_4_31: {
		editor.HostWindows: "https://download.unity3d.com/download_unity/bd5abf232a62/UnityDownloadAssistant-2019.4.31f1.exe",
		editor.HostLinux:   "https://download.unity3d.com/download_unity/bd5abf232a62/UnitySetup-2019.4.31f1",
		editor.HostMacOS:   "https://download.unity3d.com/download_unity/bd5abf232a62/UnityDownloadAssistant-2019.4.31f1.dmg",
	},
	editor.R2022_3_6: {
		editor.HostWindows: "https://download.unity3d.com/download_unity/b9e6e7e9fa2d/UnityDownloadAssistant-2022.3.6f1.exe",
		editor.HostLinux:   "https://download.unity3d.com/download_unity/b9e6e7e9fa2d/UnitySetup-2022.3.6f1",
		editor.HostMacOS:   "https://download.unity3d.com/download_unity/b9e6e7e9fa2d/UnityDownloadAssistant-2022.3.6f1.dmg",
	},
	// Only compiled in with -tags sdkunstable.
	editor.SupportedVersion("R2022_3_14"): {
		editor.HostWindows: "https://download.unity3d.com/download_unity/eff2de9070d8/UnityDownloadAssistant-2022.3.14f1.exe",
		editor.HostLinux:   "https://download.unity3d.com/download_unity/eff2de9070d8/UnitySetup-2022.3.14f1",
		editor.HostMacOS:   "https://download.unity3d.com/download_unity/eff2de9070d8/UnityDownloadAssistant-2022.3.14f1.dmg",
	},
}

func TestLocateEveryHostAndVersion(t *testing.T) {
	versions := editor.Versions()
	if len(versions) < 2 {
		t.Fatalf("expected at least the two stable versions, got %v", versions)
	}
	seen := map[editor.SupportedVersion]bool{}
	for _, version := range versions {
		seen[version] = true
		want, ok := expectedURLs[version]
		if !ok {
			t.Fatalf("no expected URLs for catalog version %s", version)
		}
		for _, host := range editor.Hosts() {
			if got := editor.Locate(host, version); got != want[host] {
				t.Errorf("Locate(%s, %s) = %q, want %q", host, version, got, want[host])
			}
		}
	}
	for _, stable := range []editor.SupportedVersion{editor.R2019_4_31, editor.R2022_3_6} {
		if !seen[stable] {
			t.Errorf("expected %s in catalog", stable)
		}
	}
}

func TestLocateFromMirror(t *testing.T) {
	got := editor.LocateFrom("https://mirror.example.com/unity/", editor.HostLinux, editor.R2022_3_6)
	want := "https://mirror.example.com/unity/b9e6e7e9fa2d/UnitySetup-2022.3.6f1"
	if got != want {
		t.Fatalf("LocateFrom = %q, want %q", got, want)
	}
}

func TestHubDeepLink(t *testing.T) {
	tests := map[editor.SupportedVersion]string{
		editor.R2019_4_31: "unityhub://2019.4.31f1/bd5abf232a62",
		editor.R2022_3_6:  "unityhub://2022.3.6f1/b9e6e7e9fa2d",
	}
	for version, want := range tests {
		if got := editor.HubDeepLink(version); got != want {
			t.Errorf("HubDeepLink(%s) = %q, want %q", version, got, want)
		}
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    editor.SupportedVersion
		wantErr bool
	}{
		{input: "R2022_3_6", want: editor.R2022_3_6},
		{input: "r2019_4_31", want: editor.R2019_4_31},
		{input: "2022.3.6f1", want: editor.R2022_3_6},
		{input: " 2019.4.31F1 ", want: editor.R2019_4_31},
		{input: "2021.3.1f1", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tc := range tests {
		got, err := editor.ParseVersion(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseVersion(%q) expected error, got %s", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVersion(%q) returned error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseVersion(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestParseHostAndTarget(t *testing.T) {
	hosts := map[string]editor.Host{
		"Windows": editor.HostWindows,
		"linux":   editor.HostLinux,
		"MacOS":   editor.HostMacOS,
		"darwin":  editor.HostMacOS,
	}
	for input, want := range hosts {
		got, err := editor.ParseHost(input)
		if err != nil || got != want {
			t.Errorf("ParseHost(%q) = %s, %v; want %s", input, got, err, want)
		}
	}
	if _, err := editor.ParseHost("plan9"); err == nil {
		t.Error("expected error for unsupported host")
	}

	target, err := editor.ParseTarget("")
	if err != nil || target != editor.TargetWindowsMono {
		t.Errorf("ParseTarget(\"\") = %s, %v; want windows_mono", target, err)
	}
	target, err = editor.ParseTarget("Android")
	if err != nil || target != editor.TargetAndroid {
		t.Errorf("ParseTarget(Android) = %s, %v", target, err)
	}
}

func TestInstallSettingValidate(t *testing.T) {
	valid := editor.InstallSetting{Version: editor.R2022_3_6, Target: editor.TargetAndroid, Host: editor.HostLinux}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid setting, got %v", err)
	}
	invalid := valid
	invalid.Version = "R1999_1_1"
	if err := invalid.Validate(); err == nil {
		t.Fatal("expected error for unknown version")
	}
	invalid = valid
	invalid.Host = "beos"
	if err := invalid.Validate(); err == nil {
		t.Fatal("expected error for unknown host")
	}
}
