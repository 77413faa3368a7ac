package sifbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandString(t *testing.T) {
	tests := []struct {
		name    string
		command Command
		want    string
	}{
		{
			name:    "simple",
			command: Command{Program: "docker", Args: []string{"build", "-t", "proj", "."}},
			want:    "docker build -t proj .",
		},
		{
			name:    "no args",
			command: Command{Program: "apptainer"},
			want:    "apptainer",
		},
		{
			name:    "quotes args with spaces",
			command: Command{Program: "apptainer", Args: []string{"build", "/tmp/my out.sif", "a.def"}},
			want:    `apptainer build "/tmp/my out.sif" a.def`,
		},
		{
			name:    "escapes args with embedded quotes",
			command: Command{Program: "docker", Args: []string{"build", "--label", `note="x"`, "."}},
			want:    `docker build --label "note=\"x\"" .`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.command.String())
		})
	}
}
