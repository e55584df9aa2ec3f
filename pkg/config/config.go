package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"
)

// DefaultFile is where the project configuration is looked up when no
// explicit path is given.
const DefaultFile = "wafsync.yml"

// AssociateWaf is the declarative association block. An absent block (or an
// empty name) means no web ACL should be associated with the deployed stage.
type AssociateWaf struct {
	Name    string `yaml:"name" env:"WAFSYNC_WAF_NAME"`
	Version string `yaml:"version" env:"WAFSYNC_WAF_VERSION"`
}

// Defaults applied after file and environment parsing, so neither source is
// clobbered by the other.
const (
	defaultStage     = "dev"
	defaultRegion    = "us-east-1"
	defaultPartition = "aws"
)

// Config describes one deployed service. Values come from the project YAML
// file first, then WAFSYNC_* environment variables override field by field.
type Config struct {
	Service   string `yaml:"service" env:"WAFSYNC_SERVICE"`
	Stage     string `yaml:"stage" env:"WAFSYNC_STAGE"`
	Region    string `yaml:"region" env:"WAFSYNC_REGION"`
	Profile   string `yaml:"profile" env:"WAFSYNC_PROFILE"`
	Partition string `yaml:"partition" env:"WAFSYNC_PARTITION"`

	// StackNameOverride replaces the conventional <service>-<stage> stack
	// name for externally composed stacks.
	StackNameOverride string `yaml:"stackName" env:"WAFSYNC_STACK_NAME"`

	// RestAPIID pins the deployed REST API id, skipping resolution entirely.
	RestAPIID string `yaml:"restApiId" env:"WAFSYNC_REST_API_ID"`

	// Template is the generated CloudFormation template the pre-package hook
	// annotates.
	Template string `yaml:"template" env:"WAFSYNC_TEMPLATE"`

	AssociateWaf AssociateWaf `yaml:"associateWaf"`
}

// Load reads the YAML project file at path (DefaultFile when empty) and then
// applies environment overrides. A missing default file is not an error;
// environment variables alone can carry the whole configuration.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	cfg := &Config{}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// fall through to env-only configuration
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.Stage == "" {
		cfg.Stage = defaultStage
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	if cfg.Partition == "" {
		cfg.Partition = defaultPartition
	}

	return cfg, nil
}

// StackName returns the deployment stack to inspect: the explicit override
// when set, else the conventional <service>-<stage> name.
func (c *Config) StackName() string {
	if c.StackNameOverride != "" {
		return c.StackNameOverride
	}
	return fmt.Sprintf("%s-%s", c.Service, c.Stage)
}

// WafName returns the configured ACL name with surrounding whitespace
// stripped. Empty means the desired state is unassociated.
func (c *Config) WafName() string {
	return strings.TrimSpace(c.AssociateWaf.Name)
}

// Validate checks that enough is present to address the deployment stack.
func (c *Config) Validate() error {
	if c.Service == "" && c.StackNameOverride == "" {
		return fmt.Errorf("service is required (or set stackName)")
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	return nil
}
