package sifbuild

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CleanIntermediate removes the intermediate engine image left behind by a
// context-mode build
func (o *Orchestrator) CleanIntermediate(name string) error {
	if err := o.EnsureEngine(); err != nil {
		return err
	}

	ref := strings.TrimPrefix(NormalizeReference(name), DaemonTransport)

	if !o.ImageExists(ref) {
		return fmt.Errorf("no intermediate image %q found", ref)
	}

	zlog.Info("removing intermediate image", zap.String("ref", ref))

	if _, err := o.runner.Output(Command{
		Program: o.config.EngineBin,
		Args:    []string{"rmi", ref},
	}); err != nil {
		return fmt.Errorf("failed to remove intermediate image %q: %w", ref, err)
	}
	return nil
}
