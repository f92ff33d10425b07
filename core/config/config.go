package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tristendillon/importmend/core/logger"
	"github.com/tristendillon/importmend/core/models"
	"gopkg.in/yaml.v3"
)

const FileName = "importmend.yaml"

type Config struct {
	SourceRoot string              `yaml:"source_root"`
	Extensions []string            `yaml:"extensions"`
	Exclude    []string            `yaml:"exclude,omitempty"`
	Renames    []models.RenameRule `yaml:"renames"`
}

func DefaultExtensions() []string {
	return []string{".ts", ".tsx", ".js", ".jsx", ".css"}
}

func DefaultRenames() []models.RenameRule {
	return []models.RenameRule{
		{New: "presentation/components", Old: "components"},
		{New: "presentation/pages", Old: "pages"},
		{New: "presentation/contexts", Old: "contexts"},
		{New: "presentation/hooks", Old: "hooks"},
		{New: "presentation/translations", Old: "translations"},
		{New: "application/services", Old: "services"},
		{New: "infrastructure/lib", Old: "lib"},
		{New: "infrastructure/data", Old: "data"},
		{New: "domain/entities", Old: "types"},
		{New: "infrastructure/external-services/email-templates", Old: "email-templates"},
	}
}

func Default() *Config {
	return &Config{
		SourceRoot: "src",
		Extensions: DefaultExtensions(),
		Renames:    DefaultRenames(),
	}
}

// Load reads importmend.yaml from the working directory, falling back to
// the defaults when there is none.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working dir: %w", err)
	}

	filePath := filepath.Join(wd, FileName)
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("No config file found, using default config")
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to stat config file %s: %w", filePath, err)
	}

	return LoadFile(filePath)
}

// LoadFile reads an explicit config file. Fields left out of the file keep
// their default values; a renames list in the file replaces the default
// table entirely.
func LoadFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	logger.Debug("Config file found: %s", filePath)
	logger.Debug("Config: %+v", *cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filePath, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.SourceRoot) == "" {
		return errors.New("source_root must not be empty")
	}
	if len(c.Extensions) == 0 {
		return errors.New("extensions must not be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}

	seen := make(map[string]bool, len(c.Renames))
	for i, rule := range c.Renames {
		if err := validateRulePath(rule.New); err != nil {
			return fmt.Errorf("renames[%d].new: %w", i, err)
		}
		if err := validateRulePath(rule.Old); err != nil {
			return fmt.Errorf("renames[%d].old: %w", i, err)
		}
		key := path.Clean(rule.New)
		if seen[key] {
			return fmt.Errorf("renames[%d]: duplicate new directory %q", i, rule.New)
		}
		seen[key] = true
	}
	return nil
}

func validateRulePath(p string) error {
	if strings.TrimSpace(p) == "" {
		return errors.New("must not be empty")
	}
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return fmt.Errorf("%q must be relative to the source root", p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return fmt.Errorf("%q must not contain '..'", p)
		}
	}
	return nil
}

// RenameTable builds the lookup table, warning about old directories that
// more than one rule claims.
func (c *Config) RenameTable() *models.RenameTable {
	table := models.NewRenameTable(c.Renames)
	for _, old := range table.DuplicateOlds() {
		logger.Warn("Old directory %q is mapped by more than one rule; the last one wins", old)
	}
	return table
}

// SourceRootAbs resolves the source root against the working directory.
func (c *Config) SourceRootAbs() (string, error) {
	abs, err := filepath.Abs(c.SourceRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve source root %s: %w", c.SourceRoot, err)
	}
	return abs, nil
}

// Write saves the config as YAML. Existing files are only replaced when
// force is set.
func (c *Config) Write(filePath string, force bool) error {
	if _, err := os.Stat(filePath); err == nil && !force {
		return fmt.Errorf("%s already exists", filePath)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", filePath, err)
	}
	return nil
}
