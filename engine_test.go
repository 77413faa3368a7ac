package sifbuild

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeReference(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"ubuntu", "docker-daemon:ubuntu:latest"},
		{"ubuntu:24.04", "docker-daemon:ubuntu:24.04"},
		{"library/ubuntu", "docker-daemon:library/ubuntu:latest"},
		{"registry:5000/img", "docker-daemon:registry:5000/img:latest"},
		{"registry:5000/img:2", "docker-daemon:registry:5000/img:2"},
		{"docker-daemon:ubuntu:24.04", "docker-daemon:ubuntu:24.04"},
		{"oras://registry/img", "oras://registry/img"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeReference(tt.ref))
		})
	}
}

func TestEnsureEngine_NoProvisionCommand(t *testing.T) {
	runner := newFakeRunner()
	runner.missing["docker"] = true

	orchestrator := NewOrchestrator(permissiveConfig(), runner)

	err := orchestrator.EnsureEngine()
	require.ErrorContains(t, err, "no provision_command configured")
	assert.Empty(t, runner.ran)
}

// provisioningRunner makes the engine binary appear after the provision
// command has run
type provisioningRunner struct {
	*fakeRunner
	provisioned bool
}

func (r *provisioningRunner) Run(cmd Command) error {
	if cmd.Program == "module" {
		r.provisioned = true
	}
	return r.fakeRunner.Run(cmd)
}

func (r *provisioningRunner) LookPath(program string) error {
	if program == "docker" && !r.provisioned {
		return fmt.Errorf("not found")
	}
	return nil
}

func TestEnsureEngine_Provisions(t *testing.T) {
	config := permissiveConfig()
	config.ProvisionCommand = []string{"module", "load", "docker"}

	runner := &provisioningRunner{fakeRunner: newFakeRunner()}
	orchestrator := NewOrchestrator(config, runner)

	require.NoError(t, orchestrator.EnsureEngine())
	require.Len(t, runner.ran, 1)
	assert.Equal(t, "module load docker", runner.ran[0].String())
}

func TestEnsureEngine_ProvisioningInsufficient(t *testing.T) {
	config := permissiveConfig()
	config.ProvisionCommand = []string{"true"}

	runner := newFakeRunner()
	runner.missing["docker"] = true

	orchestrator := NewOrchestrator(config, runner)

	err := orchestrator.EnsureEngine()
	require.ErrorContains(t, err, "still not available after provisioning")
}

func TestLatestImageRef(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["docker images --format {{.Repository}}:{{.Tag}}"] = "newest:1\nolder:2\noldest:3"

	orchestrator := NewOrchestrator(permissiveConfig(), runner)

	ref, err := orchestrator.LatestImageRef()
	require.NoError(t, err)
	assert.Equal(t, "newest:1", ref)
}

func TestLatestImageRef_NoImages(t *testing.T) {
	runner := newFakeRunner()

	orchestrator := NewOrchestrator(permissiveConfig(), runner)

	_, err := orchestrator.LatestImageRef()
	require.ErrorContains(t, err, "no local images found")
}
