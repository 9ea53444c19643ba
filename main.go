// Package main is the entry point for the ultimetrics CLI, which imports
// ultimate frisbee play-by-play data and measures gender representation.
package main

import "github.com/pable/go-ulti-metrics/cmd"

func main() {
	cmd.Execute()
}
