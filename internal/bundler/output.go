package bundler

import (
	"regexp"
	"strings"
)

// Bundler output markers
const (
	warningMarker    = "WARNING:"
	errorMarker      = "ERROR:"
	completionMarker = "completed successfully"
)

var (
	// hiddenImportRe matches the bundler's unresolved hidden-import diagnostic
	hiddenImportRe = regexp.MustCompile(`[Hh]idden import ['"]([A-Za-z0-9_.]+)['"] not found`)

	// warnFileRe captures the path of the warn file the bundler writes
	warnFileRe = regexp.MustCompile(`[Ww]arnings written to (\S*warn-[^\s'"]+\.txt)`)

	// versionRe captures the bundler's self-reported version line
	versionRe = regexp.MustCompile(`PyInstaller:?\s+v?(\d+[\w.]*)`)
)

// Diagnostics collects what matters from the bundler's output stream:
// warnings, unresolved hidden imports, the warn-file location, and
// whether the bundler reported completion.
//
// An unresolved hidden import does not fail the build here; the failure
// mode it causes is an import error when the packaged artifact runs.
type Diagnostics struct {
	Warnings       []string
	Errors         []string
	MissingImports []string
	WarnFile       string
	Version        string

	completed bool
}

// Consume classifies a single output line
func (d *Diagnostics) Consume(line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}

	if m := hiddenImportRe.FindStringSubmatch(line); m != nil {
		d.addMissingImport(m[1])
	}

	if m := warnFileRe.FindStringSubmatch(line); m != nil {
		d.WarnFile = m[1]
	}

	if d.Version == "" {
		if m := versionRe.FindStringSubmatch(line); m != nil {
			d.Version = m[1]
		}
	}

	switch {
	case strings.Contains(line, errorMarker):
		d.Errors = append(d.Errors, trimLevelPrefix(line, errorMarker))
	case strings.Contains(line, warningMarker):
		d.Warnings = append(d.Warnings, trimLevelPrefix(line, warningMarker))
	case strings.Contains(line, completionMarker):
		d.completed = true
	}
}

// Completed reports whether the bundler printed its completion line
func (d *Diagnostics) Completed() bool {
	return d.completed
}

// addMissingImport records an unresolved hidden import once
func (d *Diagnostics) addMissingImport(name string) {
	for _, existing := range d.MissingImports {
		if existing == name {
			return
		}
	}
	d.MissingImports = append(d.MissingImports, name)
}

// trimLevelPrefix strips the timestamp and level marker the bundler
// prepends, keeping only the message text
func trimLevelPrefix(line, marker string) string {
	if idx := strings.Index(line, marker); idx >= 0 {
		return strings.TrimSpace(line[idx+len(marker):])
	}
	return strings.TrimSpace(line)
}
