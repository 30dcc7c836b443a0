package version

const (
	// Name identifies the service in logs, traces, and the CLI.
	Name = "caredash"
	// Version is overridden at build time via -ldflags.
	Version = "dev"
)
