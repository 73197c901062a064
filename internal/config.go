package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/vaultgen/internal/hierarchy"
	"github.com/starford/vaultgen/internal/indexdoc"
	"github.com/starford/vaultgen/internal/sitefiles"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Database  DatabaseConfig    `yaml:"database"`
	Output    OutputConfig      `yaml:"output"`
	Hierarchy HierarchyConfig   `yaml:"hierarchy"`
	Assets    AssetsConfig      `yaml:"assets"`
	Auth      AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Hierarchy.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DatabaseConfig points at the SQLite relation store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// OutputConfig describes the layout of the generated vault.
type OutputConfig struct {
	BaseDir         string `yaml:"base_dir"`
	CommandsSubdir  string `yaml:"commands_subdir"`
	IndexFilename   string `yaml:"index_filename"`
	SiteFilesSubdir string `yaml:"site_files_subdir"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseDir, validation.Required),
		validation.Field(&c.CommandsSubdir, validation.Required),
		validation.Field(&c.IndexFilename, validation.Required),
		validation.Field(&c.SiteFilesSubdir, validation.Required),
	)
}

// CommandsDir returns the directory of the entry documents.
func (c *OutputConfig) CommandsDir() string {
	return filepath.Join(c.BaseDir, c.CommandsSubdir)
}

// IndexPath returns the path of the index document.
func (c *OutputConfig) IndexPath() string {
	return filepath.Join(c.BaseDir, c.IndexFilename)
}

// SiteFilesDir returns the directory the viewer assets are published to.
func (c *OutputConfig) SiteFilesDir() string {
	return filepath.Join(c.BaseDir, c.SiteFilesSubdir)
}

// HierarchyConfig controls the index layout.
type HierarchyConfig struct {
	Root         string `yaml:"root"`
	CalloutDepth int    `yaml:"callout_depth"`
	Title        string `yaml:"title"`
}

// Validate validates the hierarchy configuration.
func (c *HierarchyConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.CalloutDepth, validation.Required, validation.Min(1), validation.Max(16)),
		validation.Field(&c.Title, validation.Required),
	)
}

// AssetsConfig lists the viewer assets copied by publish.
type AssetsConfig struct {
	Dir   string   `yaml:"dir"`
	Files []string `yaml:"files"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Database: DatabaseConfig{
			Path: "responses.db",
		},
		Output: OutputConfig{
			BaseDir:         "output",
			CommandsSubdir:  "Commands",
			IndexFilename:   "Index.md",
			SiteFilesSubdir: "site files",
		},
		Hierarchy: HierarchyConfig{
			Root:         indexdoc.DefaultRoot,
			CalloutDepth: hierarchy.MaxDepth,
			Title:        indexdoc.DefaultTitle,
		},
		Assets: AssetsConfig{
			Dir:   ".",
			Files: append([]string(nil), sitefiles.DefaultFiles...),
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
