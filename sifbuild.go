// Package sifbuild orchestrates container image builds, producing a SIF
// archive or an unpacked sandbox directory from a recipe file, a Dockerfile
// build context, or an existing container-engine image.
package sifbuild

import (
	"os"

	"github.com/streamingfast/logging"
	"go.uber.org/zap"
)

var zlog, _ = logging.PackageLogger("sifbuild", "github.com/streamingfast/sifbuild")

// SetupLogging escalates the package loggers to debug level when
// SIFBUILD_DEBUG=1 is set in the environment.
func SetupLogging() {
	if os.Getenv("SIFBUILD_DEBUG") == "1" {
		logging.InstantiateLoggers(logging.WithDefaultLevel(zap.DebugLevel))
	}
}
