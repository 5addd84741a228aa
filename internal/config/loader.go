package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

const ConfigFileName = "packager.toml"

// moduleNameRe matches dotted Python module paths
var moduleNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Load loads the build specification from the given path.
// An empty path means the conventional packager.toml in the current
// directory. Returns the default spec if the file does not exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigFileName
	}

	// No spec file, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	// Load and parse TOML file over the defaults
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse build spec file: %w", err)
	}

	return cfg, nil
}

// Overrides holds command-line flag values.
// Flags take precedence over spec file values.
type Overrides struct {
	Entry     string
	Name      string
	Icon      string
	DistDir   string
	Bundler   string
	Timeout   time.Duration
	Verbosity int

	// HiddenImports from flags are added to the configured set
	HiddenImports []string

	OneFile   bool
	NoConsole bool
	NoConfirm bool
	Clean     bool
	NoStamp   bool
}

// Merge merges command-line flag values into the build specification.
// String and numeric overrides apply when non-zero; boolean flags only
// turn behavior on (there is no way to un-set a spec file value from
// the command line, matching how the bundler's own flags work).
func (c *Config) Merge(o Overrides) {
	if o.Entry != "" {
		c.App.Entry = o.Entry
	}
	if o.Name != "" {
		c.App.Name = o.Name
	}
	if o.Icon != "" {
		c.App.Icon = o.Icon
	}
	if o.DistDir != "" {
		c.Output.DistDir = o.DistDir
	}
	if o.Bundler != "" {
		c.Bundler.Command = o.Bundler
	}
	if o.Timeout != 0 {
		c.Bundler.Timeout = Duration{o.Timeout}
	}
	if o.Verbosity > 0 {
		c.Behavior.Verbosity = o.Verbosity
	}

	for _, imp := range o.HiddenImports {
		c.addHiddenImport(imp)
	}

	if o.OneFile {
		c.Output.OneFile = true
	}
	if o.NoConsole {
		c.Output.NoConsole = true
	}
	if o.NoConfirm {
		c.Output.NoConfirm = true
	}
	if o.Clean {
		c.Output.Clean = true
	}
	if o.NoStamp {
		c.Output.Stamp = false
	}
}

// addHiddenImport appends a hidden import unless already present
func (c *Config) addHiddenImport(name string) {
	for _, existing := range c.Imports.Hidden {
		if existing == name {
			return
		}
	}
	c.Imports.Hidden = append(c.Imports.Hidden, name)
}

// Validate checks if the build specification is usable
func (c *Config) Validate() error {
	if c.App.Entry == "" {
		return fmt.Errorf("entry point cannot be empty")
	}

	if c.App.Name == "" {
		return fmt.Errorf("bundle name cannot be empty")
	}

	for _, imp := range c.Imports.Hidden {
		if !moduleNameRe.MatchString(imp) {
			return fmt.Errorf("invalid hidden import %q (must be a dotted module path)", imp)
		}
	}

	if c.Bundler.Command == "" {
		return fmt.Errorf("bundler command cannot be empty")
	}

	if c.Bundler.Timeout.Duration < 0 {
		return fmt.Errorf("invalid bundler timeout: %v (must not be negative)", c.Bundler.Timeout)
	}

	if c.Output.DistDir == "" {
		return fmt.Errorf("dist directory cannot be empty")
	}

	if c.Output.WorkDir == "" {
		return fmt.Errorf("work directory cannot be empty")
	}

	return nil
}
