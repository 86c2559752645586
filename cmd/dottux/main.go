package main

import (
	"github.com/ksyq12/dottux/internal/cli"
	_ "github.com/ksyq12/dottux/internal/driver" // Register backend formats
)

// version is set by goreleaser via ldflags
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
