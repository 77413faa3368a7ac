package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/sifbuild"
)

var ConfigCommand = Command(configE,
	"config [key] [value]",
	"View or edit configuration settings",
	Description(`
		Without arguments, displays the current configuration.
		With a key, displays that setting's value.
		With key and value, sets the configuration option.
	`),
)

// configE views or edits configuration
func configE(cmd *cobra.Command, args []string) error {
	config, err := sifbuild.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 0 {
		// Show all configuration
		cmd.Println("Global configuration:")
		cmd.Printf("  builder_bin: %s\n", config.BuilderBin)
		cmd.Printf("  engine_bin: %s\n", config.EngineBin)
		cmd.Printf("  provision_command: %v\n", config.ProvisionCommand)
		cmd.Printf("  enable_archive: %t\n", config.EnableArchive)
		cmd.Printf("  enable_sandbox: %t\n", config.EnableSandbox)
		cmd.Printf("  write_receipt: %t\n", config.WriteReceipt)
		cmd.Printf("  data_dir: %s\n", config.DataDir)
		return nil
	}

	key := args[0]

	if len(args) == 1 {
		// Show specific key
		switch key {
		case "builder_bin":
			cmd.Println(config.BuilderBin)
		case "engine_bin":
			cmd.Println(config.EngineBin)
		case "provision_command":
			cmd.Printf("%v\n", config.ProvisionCommand)
		case "enable_archive":
			cmd.Printf("%t\n", config.EnableArchive)
		case "enable_sandbox":
			cmd.Printf("%t\n", config.EnableSandbox)
		case "write_receipt":
			cmd.Printf("%t\n", config.WriteReceipt)
		case "data_dir":
			cmd.Println(config.DataDir)
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		return nil
	}

	// Set value
	value := args[1]
	switch key {
	case "builder_bin":
		config.BuilderBin = value
	case "engine_bin":
		config.EngineBin = value
	case "enable_archive", "enable_sandbox", "write_receipt":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		switch key {
		case "enable_archive":
			config.EnableArchive = enabled
		case "enable_sandbox":
			config.EnableSandbox = enabled
		case "write_receipt":
			config.WriteReceipt = enabled
		}
	default:
		return fmt.Errorf("cannot set config key: %s (read-only or unknown)", key)
	}

	if err := sifbuild.SaveConfig(config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}
