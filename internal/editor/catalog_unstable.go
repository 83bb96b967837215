//go:build sdkunstable

package editor

// R2022_3_14 fixes an editor crash when a shader graph is referenced by
// another shader through UsePass, present in 2022.3.6f1. The SDK does not
// support it yet, so it only ships with the sdkunstable build tag.
const R2022_3_14 SupportedVersion = "R2022_3_14"

func init() {
	catalog[R2022_3_14] = build{qualified: "2022.3.14f1", hash: "eff2de9070d8"}
}
