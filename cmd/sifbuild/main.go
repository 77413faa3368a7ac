package main

import (
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/spf13/pflag"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/logging"
	"go.uber.org/zap"
)

// Version is set via ldflags at build time
var version = "dev"

var zlog, _ = logging.PackageLogger("sifbuild", "github.com/streamingfast/sifbuild/cmd/main")

var errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

func init() {
	logging.InstantiateLoggers(logging.WithDefaultLevel(zap.DPanicLevel))
}

// registerBuildFlags declares the build flags on the root command. The
// artifact version is --artifact-version because cobra reserves the root
// "version" flag as a bool once the command version is set.
func registerBuildFlags(flags *pflag.FlagSet) {
	flags.StringP("recipe", "a", "", "Builder recipe file to build from")
	flags.StringP("context", "b", "", "Project name for a Dockerfile context build")
	flags.StringP("image", "c", "", "Existing local engine image reference to convert")
	flags.StringP("name", "n", "", "Output artifact name prefix (trailing .sif is stripped)")
	flags.StringP("artifact-version", "v", "", "Artifact version, dotted numeric (e.g. 1.2.3)")
	flags.StringP("type", "t", "", "Output kind: sandbox or archive")
	flags.BoolP("dry-run", "d", false, "Print the commands that would run without executing them")
}

func main() {
	Run(
		"sifbuild [flags]",
		"Build a SIF archive or sandbox directory from a recipe, Dockerfile context or local image",
		Description(`
			Produces a container image artifact from exactly one of three sources:
			- a builder recipe file (-a)
			- a Dockerfile build context in the current directory (-b)
			- an existing local container-engine image (-c)

			The artifact is written to <cwd>/<name>-<version>, with .sif appended
			for archive builds. Running with no flags prints this help.
		`),
		Flags(registerBuildFlags),

		// Default command (no subcommand = build)
		Execute(buildE),

		ConfigCommand,
		DoctorCommand,
		CleanCommand,
		GuideCommand,

		ConfigureVersion(version),
		ConfigureViper("SIFBUILD"),

		OnCommandError(func(err error) {
			fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %s", err)))
			zlog.Debug("command error", zap.Error(err))
			os.Exit(1)
		}),
	)
}
