package main

import (
	"github.com/mrlokans/library/internal/cli"
	"github.com/mrlokans/library/internal/config"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cli.Execute(config.NewConfig(), Version)
}
