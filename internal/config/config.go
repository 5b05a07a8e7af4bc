// Package config loads project-level settings from crosscheck.yml.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/crosscheck/internal/review"
)

// ProjectConfig holds settings loaded from crosscheck.yml. Unrecognized keys
// in the file are ignored, not errors.
type ProjectConfig struct {
	// Context guides context-driven conflict resolution.
	Context review.ProjectContext `yaml:"context,omitempty"`

	// Roles restricts which analyzer roles run. Empty means all.
	Roles []string `yaml:"roles,omitempty"`

	// Endpoints maps role names to externally managed agent base URLs.
	// Roles absent from the map are spawned locally.
	Endpoints map[string]string `yaml:"endpoints,omitempty"`

	// BasePort is the first port used when spawning local role agents.
	BasePort int `yaml:"basePort,omitempty"`

	// RoleTimeout bounds each role's remote call (e.g. "90s").
	RoleTimeout time.Duration `yaml:"roleTimeout,omitempty"`

	// Deadline bounds the whole run.
	Deadline time.Duration `yaml:"deadline,omitempty"`

	// FeedbackDB is the path of the persistent feedback database. Empty
	// keeps feedback in memory for the process lifetime.
	FeedbackDB string `yaml:"feedbackDB,omitempty"`

	// Model names the inference model backing the role agents.
	Model string `yaml:"model,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`
}

// Load attempts to read crosscheck.yml or crosscheck.yaml from the given
// directory. Returns a default config (not an error) if no config file
// exists. The embedded project context is normalized either way.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"crosscheck.yml", "crosscheck.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		cfg.Context = cfg.Context.Normalize()
		return &cfg, nil
	}
	return &ProjectConfig{Context: review.DefaultProjectContext()}, nil
}
