package sifbuild

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DaemonTransport is the transport prefix the builder uses to read images
// from the local container-engine daemon
const DaemonTransport = "docker-daemon:"

// EnsureEngine checks that the container-engine client binary is available.
// If it is missing and a provision command is configured, the command is run
// once and the check is repeated. Fails if the client is still unavailable.
func (o *Orchestrator) EnsureEngine() error {
	if err := o.runner.LookPath(o.config.EngineBin); err == nil {
		return nil
	}

	if len(o.config.ProvisionCommand) == 0 {
		return fmt.Errorf("%s not found on PATH and no provision_command configured", o.config.EngineBin)
	}

	zlog.Info("engine client not found, attempting provisioning",
		zap.String("engine", o.config.EngineBin),
		zap.Strings("provision_command", o.config.ProvisionCommand))

	provision := Command{Program: o.config.ProvisionCommand[0], Args: o.config.ProvisionCommand[1:]}
	if err := o.runner.Run(provision); err != nil {
		return fmt.Errorf("failed to provision %s: %w", o.config.EngineBin, err)
	}

	if err := o.runner.LookPath(o.config.EngineBin); err != nil {
		return fmt.Errorf("%s still not available after provisioning: %w", o.config.EngineBin, err)
	}
	return nil
}

// EnsureBuilder checks that the image-builder binary is available on PATH
func (o *Orchestrator) EnsureBuilder() error {
	if err := o.runner.LookPath(o.config.BuilderBin); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", o.config.BuilderBin, err)
	}
	return nil
}

// ImageExists reports whether the given reference resolves to a local engine
// image. The daemon transport prefix is stripped before probing.
func (o *Orchestrator) ImageExists(ref string) bool {
	bare := strings.TrimPrefix(ref, DaemonTransport)
	_, err := o.runner.Output(Command{
		Program: o.config.EngineBin,
		Args:    []string{"image", "inspect", bare},
	})
	if err != nil {
		zlog.Debug("image not found locally",
			zap.String("ref", bare),
			zap.Error(err))
		return false
	}
	return true
}

// LatestImageRef returns the reference of the most-recently-created local
// engine image
func (o *Orchestrator) LatestImageRef() (string, error) {
	output, err := o.runner.Output(Command{
		Program: o.config.EngineBin,
		Args:    []string{"images", "--format", "{{.Repository}}:{{.Tag}}"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to list local images: %w", err)
	}

	lines := strings.Split(output, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return "", fmt.Errorf("no local images found after context build")
	}
	return strings.TrimSpace(lines[0]), nil
}

// NormalizeReference ensures the reference carries the daemon transport
// prefix and a tag. References that already name a transport are returned
// unchanged.
func NormalizeReference(ref string) string {
	if strings.HasPrefix(ref, DaemonTransport) || strings.Contains(ref, "://") {
		return ref
	}

	name := ref
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		name = ref[idx+1:]
	}
	if !strings.Contains(name, ":") {
		ref += ":latest"
	}
	return DaemonTransport + ref
}
