package template

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotateAddsOutput(t *testing.T) {
	tpl := map[string]any{
		"Resources": map[string]any{
			"ApiGatewayRestApi": map[string]any{"Type": "AWS::ApiGateway::RestApi"},
		},
	}

	Annotate(tpl)

	outputs, ok := tpl["Outputs"].(map[string]any)
	require.True(t, ok, "Outputs map should be created")
	assert.Equal(t, map[string]any{
		"Value": map[string]any{"Ref": "ApiGatewayRestApi"},
	}, outputs["WafSyncRestApiId"])
}

func TestAnnotatePreservesExistingOutputs(t *testing.T) {
	tpl := map[string]any{
		"Outputs": map[string]any{
			"ServiceEndpoint": map[string]any{"Value": "https://example"},
		},
	}

	Annotate(tpl)

	outputs := tpl["Outputs"].(map[string]any)
	assert.Contains(t, outputs, "ServiceEndpoint")
	assert.Contains(t, outputs, "WafSyncRestApiId")
}

func TestAnnotateIsIdempotent(t *testing.T) {
	tpl := map[string]any{}

	Annotate(tpl)
	Annotate(tpl)

	outputs := tpl["Outputs"].(map[string]any)
	assert.Len(t, outputs, 1)
}

func TestAnnotateFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloudformation-template-update-stack.json")
	original := map[string]any{
		"AWSTemplateFormatVersion": "2010-09-09",
		"Resources": map[string]any{
			"ApiGatewayRestApi": map[string]any{"Type": "AWS::ApiGateway::RestApi"},
		},
	}
	raw, err := json.Marshal(original)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0644))

	require.NoError(t, AnnotateFile(path))

	annotated := make(map[string]any)
	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &annotated))

	assert.Equal(t, "2010-09-09", annotated["AWSTemplateFormatVersion"])
	outputs := annotated["Outputs"].(map[string]any)
	assert.Contains(t, outputs, "WafSyncRestApiId")
}

func TestAnnotateFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yml")
	require.NoError(t, os.WriteFile(path, []byte("Resources:\n  ApiGatewayRestApi:\n    Type: AWS::ApiGateway::RestApi\n"), 0644))

	require.NoError(t, AnnotateFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "WafSyncRestApiId")
}

func TestAnnotateFileMissing(t *testing.T) {
	err := AnnotateFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err, "annotation failures must propagate")
}
