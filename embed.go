package sifbuild

import (
	_ "embed"
)

// GuideMD contains the user guide describing the three build modes.
//
//go:embed embedded/guide.md
var GuideMD string
