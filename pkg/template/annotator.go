// Package template injects the REST API id output into the generated
// CloudFormation template before packaging finalizes.
package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cloudpeel/wafsync/pkg/types"
)

// Annotate adds a single output under the sentinel key referencing the
// auto-generated REST API resource. Pure mutation, no I/O; calling it twice
// rewrites the same key, so it is safe to run on every packaging pass.
func Annotate(tpl map[string]any) {
	outputs, ok := tpl["Outputs"].(map[string]any)
	if !ok {
		outputs = make(map[string]any)
		tpl["Outputs"] = outputs
	}

	outputs[types.OutputRestAPIID] = map[string]any{
		"Value": map[string]any{
			"Ref": types.LogicalRestAPIID,
		},
	}
}

// AnnotateFile loads the template at path, annotates it, and writes it back
// in the same format. Errors propagate: a template that cannot be annotated
// should stop the packaging pipeline.
func AnnotateFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}

	tpl := make(map[string]any)
	isYAML := isYAMLPath(path)

	if isYAML {
		err = yaml.Unmarshal(raw, &tpl)
	} else {
		err = json.Unmarshal(raw, &tpl)
	}
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", path, err)
	}

	Annotate(tpl)

	var annotated []byte
	if isYAML {
		annotated, err = yaml.Marshal(tpl)
	} else {
		annotated, err = json.MarshalIndent(tpl, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding template: %w", err)
	}

	if err := os.WriteFile(path, annotated, 0644); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}

	return nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	default:
		return false
	}
}
