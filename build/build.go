package build

// set via -ldflags at build time
var (
	Version = "local-dev"
	Time    = "n/a"
)
