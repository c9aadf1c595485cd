// Command aurora renders the animated aurora background.
//
// Usage:
//
//	aurora window [--config aurora.yaml] [--watch]
//	aurora render --frames 60 --out frame-%03d.png
//	aurora shader --format spirv -o aurora.spv
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "aurora:", err)
		os.Exit(1)
	}
}
