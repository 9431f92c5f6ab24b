package main

import (
	"fmt"
	"runtime/debug"
)

func buildSetting(bi *debug.BuildInfo, key, fallback string) string {
	for _, s := range bi.Settings {
		if s.Key == key {
			return s.Value
		}
	}

	return fallback
}

func printVersion() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		fmt.Println("midi-synth - version unknown")

		return
	}

	commit := buildSetting(bi, "vcs.revision", "unknown")
	dirty := buildSetting(bi, "vcs.modified", "false")

	if dirty == "true" {
		commit += "-dirty"
	}

	fmt.Printf("midi-synth (revision %s)\n", commit)
}
