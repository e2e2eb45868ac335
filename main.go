package main

import "github.com/Agents-Store/openclaw-deepsearch/cmd"

// Build is set via ldflags at build time
var Build = "unknown"

func main() {
	cmd.SetBuild(Build)
	cmd.Execute()
}
