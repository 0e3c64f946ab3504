//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts a SuperMemo export:
// mage convert <source> <mediaDir> <target>.
func Convert(source, mediaDir, target string) error {
	mg.Deps(Build)
	fmt.Printf("[convert] %s -> %s\n", source, target)
	return sh.RunV(filepath.Join(binDir, binName), "convert", source, mediaDir, target)
}
