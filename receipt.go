package sifbuild

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kaptinlin/jsonmerge"
	"go.uber.org/zap"
)

// Receipt records how an artifact was produced. It is written next to the
// artifact as <output>.receipt.json when write_receipt is enabled.
type Receipt struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Kind      string   `json:"kind"`
	Mode      string   `json:"mode"`
	Source    string   `json:"source"`
	Output    string   `json:"output"`
	CreatedAt string   `json:"created_at"`
	Commands  []string `json:"commands"`

	// Metadata carries site- and project-level annotations from the
	// configuration, merged with RFC 7386 semantics
	Metadata map[string]any `json:"metadata,omitempty"`
}

// writeReceipt composes and writes the build receipt for a successful build
func (o *Orchestrator) writeReceipt(req *Request, result *Result) error {
	commands := make([]string, 0, len(result.Steps))
	for _, step := range result.Steps {
		commands = append(commands, step.Command.String())
	}

	receipt := Receipt{
		Name:      req.Name,
		Version:   req.Version,
		Kind:      string(req.Kind),
		Mode:      string(req.Mode()),
		Source:    req.Source(),
		Output:    result.OutputPath,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Commands:  commands,
	}

	if len(o.config.Metadata) > 0 {
		defaults := map[string]any{
			"produced_by": "sifbuild",
		}
		merged, err := jsonmerge.Merge(defaults, o.config.Metadata)
		if err != nil {
			return fmt.Errorf("failed to merge receipt metadata: %w", err)
		}
		receipt.Metadata = merged.Doc
	}

	data, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize receipt: %w", err)
	}

	receiptPath := result.OutputPath + ".receipt.json"
	if err := os.WriteFile(receiptPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}

	zlog.Debug("wrote build receipt", zap.String("path", receiptPath))
	return nil
}
