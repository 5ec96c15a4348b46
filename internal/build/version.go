package build

// Overridden at link time via -ldflags -X.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion returns the version string with commit hash appended, plus the
// build timestamp when one was stamped in.
// Format: "Version+Commit (BuildTime)" (e.g., "1.0.0+abc123 (2026-08-01)")
func FullVersion() string {
	v := Version + "+" + Commit
	if BuildTime != "unknown" {
		v += " (" + BuildTime + ")"
	}
	return v
}
