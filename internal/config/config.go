package config

import "time"

// Config holds the full build specification for a packaging run
type Config struct {
	App      AppConfig      `toml:"app"`
	Imports  ImportsConfig  `toml:"imports"`
	Bundler  BundlerConfig  `toml:"bundler"`
	Output   OutputConfig   `toml:"output"`
	Behavior BehaviorConfig `toml:"behavior"`
}

// AppConfig identifies the application being packaged
type AppConfig struct {
	// Entry is the Python entry-point script; it must exist at build time
	Entry string `toml:"entry"`
	// Name is the name of the produced bundle
	Name string `toml:"name"`
	// Icon is the icon resource path (format is platform-specific)
	Icon string `toml:"icon"`
}

// ImportsConfig lists modules the bundler's static analysis misses
type ImportsConfig struct {
	Hidden []string `toml:"hidden"`
}

// BundlerConfig holds settings for the external bundler invocation
type BundlerConfig struct {
	// Command is the bundler executable name or path
	Command string `toml:"command"`
	// Python is the interpreter used by the check command to probe imports
	Python string `toml:"python"`
	// ExtraArgs are appended verbatim to the bundler command line
	ExtraArgs []string `toml:"extraArgs"`
	// Timeout bounds the bundler invocation; zero means no limit
	Timeout Duration `toml:"timeout"`
}

// OutputConfig controls where and how the artifact is produced
type OutputConfig struct {
	DistDir   string `toml:"distDir"`
	WorkDir   string `toml:"workDir"`
	OneFile   bool   `toml:"oneFile"`
	NoConsole bool   `toml:"noConsole"`
	NoConfirm bool   `toml:"noConfirm"`
	Clean     bool   `toml:"clean"`
	Stamp     bool   `toml:"stamp"`
}

// BehaviorConfig holds tool behavior settings
type BehaviorConfig struct {
	Verbosity int `toml:"verbosity"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
