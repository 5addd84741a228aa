package config

import (
	"runtime"
	"time"
)

// DefaultConfig returns the default build specification
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Entry: "pyminflux/main.py",
			Name:  "pyMINFLUX",
			Icon:  defaultIcon(),
		},
		Imports: ImportsConfig{
			// Distance-computation internals are loaded dynamically by
			// scikit-learn, so the bundler's static analysis misses them.
			Hidden: []string{
				"sklearn.neighbors._typedefs",
				"sklearn.utils._cython_blas",
			},
		},
		Bundler: BundlerConfig{
			Command: "pyinstaller",
			Python:  defaultPython(),
			Timeout: Duration{30 * time.Minute},
		},
		Output: OutputConfig{
			DistDir:   "dist",
			WorkDir:   "build",
			OneFile:   false,
			NoConsole: true,
			NoConfirm: false,
			Clean:     false,
			Stamp:     true,
		},
		Behavior: BehaviorConfig{
			Verbosity: 0,
		},
	}
}

// defaultIcon returns the icon path matching the host platform's format
func defaultIcon() string {
	switch runtime.GOOS {
	case "windows":
		return "icons/pyminflux.ico"
	case "darwin":
		return "icons/pyminflux.icns"
	default:
		return "icons/pyminflux.png"
	}
}

// defaultPython returns the interpreter name conventional on the host platform
func defaultPython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}
