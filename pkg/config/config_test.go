package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProject = `service: orders-api
stage: prod
region: eu-west-1
associateWaf:
  name: acl-prod
  version: Regional
`

func writeProject(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wafsync.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadProjectFile(t *testing.T) {
	cfg, err := Load(writeProject(t, sampleProject))
	require.NoError(t, err)

	assert.Equal(t, "orders-api", cfg.Service)
	assert.Equal(t, "prod", cfg.Stage)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "acl-prod", cfg.AssociateWaf.Name)
	assert.Equal(t, "Regional", cfg.AssociateWaf.Version)
	assert.Equal(t, "aws", cfg.Partition, "partition defaults")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WAFSYNC_REGION", "us-west-2")
	t.Setenv("WAFSYNC_WAF_NAME", "acl-canary")

	cfg, err := Load(writeProject(t, sampleProject))
	require.NoError(t, err)

	assert.Equal(t, "us-west-2", cfg.Region)
	assert.Equal(t, "acl-canary", cfg.AssociateWaf.Name)
	assert.Equal(t, "orders-api", cfg.Service, "file values survive unrelated overrides")
}

func TestLoadMissingDefaultFileIsEnvOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WAFSYNC_SERVICE", "orders-api")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "orders-api", cfg.Service)
	assert.Equal(t, "dev", cfg.Stage, "stage defaults")
	assert.Empty(t, cfg.AssociateWaf.Name, "absent block means no association")
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestStackName(t *testing.T) {
	cfg := &Config{Service: "orders-api", Stage: "prod"}
	assert.Equal(t, "orders-api-prod", cfg.StackName())

	cfg.StackNameOverride = "split-stack-gateway"
	assert.Equal(t, "split-stack-gateway", cfg.StackName())
}

func TestWafNameTrims(t *testing.T) {
	cfg := &Config{AssociateWaf: AssociateWaf{Name: "  acl-prod  "}}
	assert.Equal(t, "acl-prod", cfg.WafName())

	cfg.AssociateWaf.Name = "   "
	assert.Empty(t, cfg.WafName())
}

func TestValidate(t *testing.T) {
	cfg := &Config{Region: "us-east-1"}
	assert.Error(t, cfg.Validate(), "service or stackName required")

	cfg.StackNameOverride = "external-stack"
	assert.NoError(t, cfg.Validate())

	cfg.Region = ""
	assert.Error(t, cfg.Validate())
}
