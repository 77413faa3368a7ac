package main

import (
	"fmt"

	"github.com/spf13/cobra"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/sifbuild"
)

var CleanCommand = Command(cleanE,
	"clean <name>",
	"Remove the intermediate engine image left by a context build",
	ExactArgs(1),
)

// cleanE removes the intermediate image tagged by a context build
func cleanE(cmd *cobra.Command, args []string) error {
	sifbuild.SetupLogging()

	config, err := sifbuild.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	orchestrator := sifbuild.NewOrchestrator(config, sifbuild.ExecRunner{})
	if err := orchestrator.CleanIntermediate(args[0]); err != nil {
		return err
	}

	cmd.Printf("Removed intermediate image for %q\n", args[0])
	return nil
}
