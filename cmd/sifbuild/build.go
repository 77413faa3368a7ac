package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"github.com/streamingfast/sifbuild"
)

var successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

// buildE runs the build orchestration with the flag-supplied request
func buildE(cmd *cobra.Command, args []string) error {
	sifbuild.SetupLogging()

	// No flags at all means the user is exploring, show help instead
	if cmd.Flags().NFlag() == 0 {
		return cmd.Help()
	}

	recipe, err := cmd.Flags().GetString("recipe")
	if err != nil {
		return fmt.Errorf("failed to get recipe flag: %w", err)
	}
	context, err := cmd.Flags().GetString("context")
	if err != nil {
		return fmt.Errorf("failed to get context flag: %w", err)
	}
	image, err := cmd.Flags().GetString("image")
	if err != nil {
		return fmt.Errorf("failed to get image flag: %w", err)
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("failed to get name flag: %w", err)
	}
	artifactVersion, err := cmd.Flags().GetString("artifact-version")
	if err != nil {
		return fmt.Errorf("failed to get artifact-version flag: %w", err)
	}
	kind, err := cmd.Flags().GetString("type")
	if err != nil {
		return fmt.Errorf("failed to get type flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}

	config, err := sifbuild.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	projectFile, err := sifbuild.FindProjectFile(".")
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", sifbuild.ProjectFileName, err)
	}
	config = sifbuild.MergeProjectFile(config, projectFile)

	req := &sifbuild.Request{
		RecipePath:  recipe,
		ContextName: context,
		ImageRef:    image,
		Name:        name,
		Version:     artifactVersion,
		Kind:        sifbuild.OutputKind(kind),
		DryRun:      dryRun,
	}

	orchestrator := sifbuild.NewOrchestrator(config, sifbuild.ExecRunner{})
	result, err := orchestrator.Build(req)
	if err != nil {
		return err
	}

	if dryRun {
		cmd.Println(successStyle.Render("Dry run complete, no commands were executed"))
		return nil
	}

	cmd.Println(successStyle.Render(fmt.Sprintf("Build complete: %s", result.OutputPath)))
	return nil
}
