package expertsystem

// Version is set via ldflags at build time.
var Version = "dev"
