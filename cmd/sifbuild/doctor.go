package main

import (
	"fmt"

	"github.com/spf13/cobra"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/sifbuild"
)

var DoctorCommand = Command(doctorE,
	"doctor",
	"Check that the external build tools are available",
	Description(`
		Reports whether the configured image-builder and container-engine
		binaries can be found on PATH. Context and image builds require the
		engine client; recipe builds only need the builder.
	`),
)

// doctorE reports external tool availability
func doctorE(cmd *cobra.Command, args []string) error {
	sifbuild.SetupLogging()

	config, err := sifbuild.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	runner := sifbuild.ExecRunner{}
	missing := 0

	for _, tool := range []struct {
		name string
		bin  string
	}{
		{"builder", config.BuilderBin},
		{"engine", config.EngineBin},
	} {
		if err := runner.LookPath(tool.bin); err != nil {
			cmd.Printf("  %s (%s): NOT FOUND\n", tool.name, tool.bin)
			missing++
			continue
		}
		cmd.Printf("  %s (%s): ok\n", tool.name, tool.bin)
	}

	if missing > 0 {
		if len(config.ProvisionCommand) > 0 {
			cmd.Printf("Missing tools may be provisioned at build time via: %v\n", config.ProvisionCommand)
			return nil
		}
		return fmt.Errorf("%d required tool(s) missing and no provision_command configured", missing)
	}

	cmd.Println("All build tools available")
	return nil
}
