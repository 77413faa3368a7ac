package main

import (
	"fmt"

	"charm.land/glamour/v2"
	"github.com/spf13/cobra"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/sifbuild"
)

var GuideCommand = Command(guideE,
	"guide",
	"Show the build modes guide",
)

// guideE renders the embedded guide markdown to the terminal
func guideE(cmd *cobra.Command, args []string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithEnvironmentConfig(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(sifbuild.GuideMD)
	if err != nil {
		return fmt.Errorf("failed to render guide: %w", err)
	}

	cmd.Print(out)
	return nil
}
