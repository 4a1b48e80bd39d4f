package common

// Version is overridden at build time with -ldflags "-X ...common.Version=<tag>".
var Version = "dev"

// PackageName prefixes every exported metric.
const PackageName = "arcns"
