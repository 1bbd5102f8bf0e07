package version

// Set at build time with -ldflags "-X vmctl/internal/version.Version=...".
var (
	PackageName = "vmctl"
	Version     = "undefined"
	CommitHash  = "undefined"
	BuildDate   = "undefined"
)
