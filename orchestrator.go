package sifbuild

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Orchestrator coordinates a build: it validates requests, resolves the
// output path, ensures the external tools are available and dispatches the
// external invocations for the chosen source mode. The configuration is
// fixed at construction.
type Orchestrator struct {
	config *Config
	runner Runner
}

// NewOrchestrator creates an orchestrator with the given configuration and
// command runner
func NewOrchestrator(config *Config, runner Runner) *Orchestrator {
	return &Orchestrator{config: config, runner: runner}
}

// StepResult records the outcome of one external invocation
type StepResult struct {
	// Command is the invocation that ran (or would have run in dry-run)
	Command Command

	// Ran indicates whether the command was actually executed
	Ran bool

	// Err is the execution error, if any
	Err error
}

// Result is the outcome of a build
type Result struct {
	// OutputPath is the derived artifact path
	OutputPath string

	// Steps are the external invocations, in order
	Steps []StepResult

	// Success indicates the overall outcome. Dry runs always succeed.
	Success bool
}

// Build runs the full orchestration for one request: validate, resolve the
// output path, ensure dependencies, dispatch the chosen mode.
//
// In dry-run mode no external command is executed; the planned commands are
// printed and the result always reports success.
func (o *Orchestrator) Build(req *Request) (*Result, error) {
	if err := req.Validate(o.config); err != nil {
		return nil, err
	}

	outputPath := req.OutputPath()
	if _, err := os.Stat(outputPath); err == nil {
		return nil, fmt.Errorf("output path %s already exists, refusing to overwrite", outputPath)
	}

	zlog.Info("starting build",
		zap.String("mode", string(req.Mode())),
		zap.String("source", req.Source()),
		zap.String("output", outputPath),
		zap.String("kind", string(req.Kind)),
		zap.Bool("dry_run", req.DryRun))

	result := &Result{OutputPath: outputPath}

	// Dependency checks run external binaries, so a dry run plans the
	// commands without them.
	if !req.DryRun {
		if err := o.EnsureBuilder(); err != nil {
			return nil, err
		}
		if req.Mode() != ModeRecipe {
			if err := o.EnsureEngine(); err != nil {
				return nil, err
			}
		}
	}

	var err error
	switch req.Mode() {
	case ModeRecipe:
		err = o.buildFromRecipe(req, result)
	case ModeContext:
		err = o.buildFromContext(req, result)
	case ModeImage:
		err = o.buildFromImage(req, result)
	}
	if err != nil {
		return result, err
	}

	result.Success = true

	if o.config.WriteReceipt && !req.DryRun {
		if err := o.writeReceipt(req, result); err != nil {
			zlog.Warn("failed to write build receipt", zap.Error(err))
		}
	}

	return result, nil
}

// builderCommand composes the image-builder invocation producing the final
// artifact from the given source (recipe path or transport-prefixed image
// reference)
func (o *Orchestrator) builderCommand(req *Request, outputPath, source string) Command {
	args := []string{"build"}
	if req.Kind == KindSandbox {
		args = append(args, "--sandbox")
	}
	args = append(args, outputPath, source)
	return Command{Program: o.config.BuilderBin, Args: args}
}

// buildFromRecipe runs a single builder invocation against the recipe file
func (o *Orchestrator) buildFromRecipe(req *Request, result *Result) error {
	build := o.builderCommand(req, result.OutputPath, req.RecipePath)
	return o.runStep(req, result, build)
}

// buildFromContext first builds an intermediate engine image from the local
// Dockerfile context, then converts the most-recently-created local image
// into the final artifact. The second step only runs if the first succeeds.
func (o *Orchestrator) buildFromContext(req *Request, result *Result) error {
	tag := strings.TrimPrefix(NormalizeReference(req.ContextName), DaemonTransport)

	contextBuild := Command{
		Program: o.config.EngineBin,
		Args:    []string{"build", "-t", tag, "."},
		Dir:     req.WorkDir,
	}
	if err := o.runStep(req, result, contextBuild); err != nil {
		return err
	}

	// The conversion source is only known once the intermediate image exists,
	// so a dry run displays the context tag instead.
	source := DaemonTransport + tag
	if !req.DryRun {
		latest, err := o.LatestImageRef()
		if err != nil {
			return err
		}
		source = DaemonTransport + latest
	}

	convert := o.builderCommand(req, result.OutputPath, source)
	return o.runStep(req, result, convert)
}

// buildFromImage converts an existing local engine image into the final
// artifact
func (o *Orchestrator) buildFromImage(req *Request, result *Result) error {
	ref := NormalizeReference(req.ImageRef)

	if !req.DryRun && !o.ImageExists(ref) {
		return fmt.Errorf("image %q not found locally, pull or build it first", req.ImageRef)
	}

	convert := o.builderCommand(req, result.OutputPath, ref)
	return o.runStep(req, result, convert)
}

// runStep executes one planned command, or prints it in dry-run mode
func (o *Orchestrator) runStep(req *Request, result *Result, command Command) error {
	if req.DryRun {
		fmt.Printf("dry-run: %s\n", command)
		result.Steps = append(result.Steps, StepResult{Command: command})
		return nil
	}

	fmt.Printf("Running: %s\n", command)

	err := o.runner.Run(command)
	result.Steps = append(result.Steps, StepResult{Command: command, Ran: true, Err: err})
	if err != nil {
		return fmt.Errorf("build step failed: %w", err)
	}
	return nil
}
