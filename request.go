package sifbuild

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// OutputKind represents the form of the produced artifact
type OutputKind string

const (
	// KindSandbox produces an unpacked, directory-form container image
	KindSandbox OutputKind = "sandbox"
	// KindArchive produces a single packed SIF image file
	KindArchive OutputKind = "archive"
)

// ArchiveSuffix is the file suffix appended to archive-kind artifacts
const ArchiveSuffix = ".sif"

// ValidOutputKinds contains all valid output kind values
var ValidOutputKinds = []OutputKind{KindSandbox, KindArchive}

// ValidateOutputKind checks if an output kind name is valid
func ValidateOutputKind(name string) error {
	switch OutputKind(name) {
	case KindSandbox, KindArchive:
		return nil
	default:
		return fmt.Errorf("invalid output kind %q, valid values: %v", name, ValidOutputKinds)
	}
}

// SourceMode identifies which of the three build sources a request uses
type SourceMode string

const (
	// ModeRecipe builds directly from a builder recipe (definition) file
	ModeRecipe SourceMode = "recipe"
	// ModeContext builds an intermediate image from a Dockerfile context,
	// then converts it to the final artifact
	ModeContext SourceMode = "context"
	// ModeImage converts an existing local engine image to the final artifact
	ModeImage SourceMode = "image"
)

// versionRe matches dotted numeric versions like "1", "1.2" and "1.2.3"
var versionRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

// ContextFileName is the file that must exist in the working directory for
// context-mode builds
const ContextFileName = "Dockerfile"

// Request describes a single build invocation. Exactly one of RecipePath,
// ContextName and ImageRef must be set.
type Request struct {
	// RecipePath is the path to a builder recipe file (recipe mode)
	RecipePath string

	// ContextName is the tag given to the intermediate image built from the
	// local Dockerfile context (context mode)
	ContextName string

	// ImageRef is an existing local engine image reference (image mode)
	ImageRef string

	// Name is the output artifact name prefix. A trailing archive suffix is
	// stripped before use.
	Name string

	// Version is the dotted numeric artifact version
	Version string

	// Kind selects the artifact form (sandbox directory or SIF archive)
	Kind OutputKind

	// DryRun prints the external commands instead of executing them
	DryRun bool

	// WorkDir is the directory output paths are resolved against.
	// Empty means the current working directory.
	WorkDir string
}

// Mode returns the source mode implied by the set source field.
// Only meaningful after Validate has passed.
func (r *Request) Mode() SourceMode {
	switch {
	case r.RecipePath != "":
		return ModeRecipe
	case r.ContextName != "":
		return ModeContext
	default:
		return ModeImage
	}
}

// Source returns the source identifier for the active mode
func (r *Request) Source() string {
	switch r.Mode() {
	case ModeRecipe:
		return r.RecipePath
	case ModeContext:
		return r.ContextName
	default:
		return r.ImageRef
	}
}

// Validate checks the request against the given configuration. It normalizes
// the name (stripping a trailing archive suffix) and the working directory.
func (r *Request) Validate(config *Config) error {
	sources := 0
	for _, s := range []string{r.RecipePath, r.ContextName, r.ImageRef} {
		if s != "" {
			sources++
		}
	}
	if sources == 0 {
		return fmt.Errorf("no build source given, set exactly one of --recipe, --context or --image")
	}
	if sources > 1 {
		return fmt.Errorf("conflicting build sources, set exactly one of --recipe, --context or --image")
	}

	if err := ValidateOutputKind(string(r.Kind)); err != nil {
		return err
	}
	if r.Kind == KindArchive && !config.EnableArchive {
		return fmt.Errorf("archive output is disabled in the configuration")
	}
	if r.Kind == KindSandbox && !config.EnableSandbox {
		return fmt.Errorf("sandbox output is disabled in the configuration")
	}

	r.Name = strings.TrimSuffix(r.Name, ArchiveSuffix)
	if r.Name == "" {
		return fmt.Errorf("artifact name is required")
	}

	if r.Version == "" {
		return fmt.Errorf("artifact version is required")
	}
	if !versionRe.MatchString(r.Version) {
		return fmt.Errorf("invalid version %q, expected a dotted numeric version like 1.2.3", r.Version)
	}

	if r.WorkDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		r.WorkDir = cwd
	}

	switch r.Mode() {
	case ModeRecipe:
		if _, err := os.Stat(r.RecipePath); err != nil {
			return fmt.Errorf("recipe file %q not found: %w", r.RecipePath, err)
		}
	case ModeContext:
		contextFile := filepath.Join(r.WorkDir, ContextFileName)
		if _, err := os.Stat(contextFile); err != nil {
			return fmt.Errorf("no %s found in %s: %w", ContextFileName, r.WorkDir, err)
		}
	}

	return nil
}

// OutputPath returns the derived artifact path for the request.
// Only meaningful after Validate has passed.
func (r *Request) OutputPath() string {
	path := filepath.Join(r.WorkDir, r.Name+"-"+r.Version)
	if r.Kind == KindArchive {
		path += ArchiveSuffix
	}
	return path
}
