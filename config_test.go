package sifbuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "apptainer", config.BuilderBin)
	assert.Equal(t, "docker", config.EngineBin)
	assert.True(t, config.EnableArchive)
	assert.True(t, config.EnableSandbox)
	assert.False(t, config.WriteReceipt)
	assert.Empty(t, config.ProvisionCommand)
}

func TestLoadConfig_Overlay(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configDir := filepath.Join(home, ".config", "sifbuild")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	content := `builder_bin: singularity
enable_archive: false
provision_command: ["module", "load", "docker"]
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0644))

	config, err := LoadConfig()
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "singularity", config.BuilderBin)
	assert.False(t, config.EnableArchive)
	assert.Equal(t, []string{"module", "load", "docker"}, config.ProvisionCommand)

	// Untouched defaults survive the overlay
	assert.Equal(t, "docker", config.EngineBin)
	assert.True(t, config.EnableSandbox)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	config, err := LoadConfig()
	require.NoError(t, err)

	config.WriteReceipt = true
	config.EngineBin = "podman"
	require.NoError(t, SaveConfig(config))

	reloaded, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, reloaded.WriteReceipt)
	assert.Equal(t, "podman", reloaded.EngineBin)
}

func TestFindProjectFile_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0755))

	content := "write_receipt: true\nmetadata:\n  team: infra\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFileName), []byte(content), 0644))

	location, err := FindProjectFile(nested)
	require.NoError(t, err)
	require.NotNil(t, location)

	assert.Equal(t, root, location.Dir)
	require.NotNil(t, location.Config.WriteReceipt)
	assert.True(t, *location.Config.WriteReceipt)
	assert.Equal(t, "infra", location.Config.Metadata["team"])
}

func TestFindProjectFile_NotFound(t *testing.T) {
	location, err := FindProjectFile(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, location)
}

func TestMergeProjectFile(t *testing.T) {
	config := permissiveConfig()
	config.Metadata = map[string]any{"site": "hpc-west", "team": "base"}

	t.Run("nil project file keeps config", func(t *testing.T) {
		merged := MergeProjectFile(config, nil)
		assert.Equal(t, config.Metadata, merged.Metadata)
		assert.False(t, merged.WriteReceipt)
	})

	t.Run("overrides receipt and layers metadata", func(t *testing.T) {
		enable := true
		merged := MergeProjectFile(config, &ProjectFileLocation{
			Path: "/proj/.sifbuild.yaml",
			Dir:  "/proj",
			Config: &ProjectFileConfig{
				WriteReceipt: &enable,
				Metadata:     map[string]any{"team": "infra"},
			},
		})

		assert.True(t, merged.WriteReceipt)
		assert.Equal(t, "infra", merged.Metadata["team"])
		assert.Equal(t, "hpc-west", merged.Metadata["site"])

		// Original config untouched
		assert.False(t, config.WriteReceipt)
		assert.Equal(t, "base", config.Metadata["team"])
	})
}
