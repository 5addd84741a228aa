// Package stamp appends a build-metadata record to a packaged
// executable. The record is JSON followed by a fixed-size footer, so a
// stamped artifact still runs normally: loaders ignore trailing bytes.
package stamp

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	// Magic marker identifying stamped artifacts
	MagicMarker = "PYMFXPKG"
	// Footer size: 8 bytes offset + 8 bytes size + 8 bytes magic
	FooterSize = 24
)

// Footer locates the metadata record inside a stamped artifact
type Footer struct {
	Magic  [8]byte // "PYMFXPKG"
	Offset int64   // Offset to start of the JSON record
	Size   int64   // Size of the JSON record
}

// Record is the build metadata stamped onto an artifact
type Record struct {
	BuildID        string    `json:"buildId"`
	Name           string    `json:"name"`
	Entry          string    `json:"entry"`
	HiddenImports  []string  `json:"hiddenImports,omitempty"`
	BundlerVersion string    `json:"bundlerVersion,omitempty"`
	Platform       string    `json:"platform"`
	BuiltAt        time.Time `json:"builtAt"`
}

// Apply stamps the record onto the artifact at path. A previous stamp,
// if any, is replaced.
func Apply(path string, rec *Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode stamp record: %w", err)
	}

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer file.Close()

	// Strip any existing stamp before appending the new one
	base, err := baseSize(file)
	if err != nil {
		return err
	}
	if err := file.Truncate(base); err != nil {
		return fmt.Errorf("failed to truncate artifact: %w", err)
	}

	if _, err := file.Seek(base, 0); err != nil {
		return fmt.Errorf("failed to seek to artifact end: %w", err)
	}

	if _, err := file.Write(payload); err != nil {
		return fmt.Errorf("failed to write stamp record: %w", err)
	}

	footer := Footer{
		Offset: base,
		Size:   int64(len(payload)),
	}
	copy(footer.Magic[:], MagicMarker)

	if err := binary.Write(file, binary.LittleEndian, footer.Offset); err != nil {
		return fmt.Errorf("failed to write offset: %w", err)
	}
	if err := binary.Write(file, binary.LittleEndian, footer.Size); err != nil {
		return fmt.Errorf("failed to write size: %w", err)
	}
	if _, err := file.Write(footer.Magic[:]); err != nil {
		return fmt.Errorf("failed to write magic: %w", err)
	}

	return nil
}

// Read returns the stamp record from the artifact at path, or nil if
// the artifact is not stamped
func Read(path string) (*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer file.Close()

	footer, ok, err := readFooter(file)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil // Not stamped
	}

	if _, err := file.Seek(footer.Offset, 0); err != nil {
		return nil, fmt.Errorf("failed to seek to stamp record: %w", err)
	}

	payload := make([]byte, footer.Size)
	if _, err := io.ReadFull(file, payload); err != nil {
		return nil, fmt.Errorf("failed to read stamp record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode stamp record: %w", err)
	}

	return &rec, nil
}

// IsStamped checks whether the artifact at path carries a stamp
func IsStamped(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer file.Close()

	_, ok, err := readFooter(file)
	return ok, err
}

// readFooter reads and validates the trailing footer. ok is false when
// the file carries no stamp.
func readFooter(file *os.File) (Footer, bool, error) {
	var footer Footer

	info, err := file.Stat()
	if err != nil {
		return footer, false, fmt.Errorf("failed to stat artifact: %w", err)
	}

	fileSize := info.Size()
	if fileSize < FooterSize {
		return footer, false, nil
	}

	if _, err := file.Seek(fileSize-FooterSize, 0); err != nil {
		return footer, false, fmt.Errorf("failed to seek to footer: %w", err)
	}

	if err := binary.Read(file, binary.LittleEndian, &footer.Offset); err != nil {
		return footer, false, nil
	}
	if err := binary.Read(file, binary.LittleEndian, &footer.Size); err != nil {
		return footer, false, nil
	}
	if _, err := io.ReadFull(file, footer.Magic[:]); err != nil {
		return footer, false, nil
	}

	if !bytes.Equal(footer.Magic[:], []byte(MagicMarker)) {
		return footer, false, nil
	}

	// Reject footers pointing outside the file
	if footer.Offset < 0 || footer.Size < 0 || footer.Offset+footer.Size > fileSize-FooterSize {
		return footer, false, nil
	}

	return footer, true, nil
}

// baseSize returns the size of the executable portion, excluding any
// existing stamp
func baseSize(file *os.File) (int64, error) {
	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat artifact: %w", err)
	}

	footer, ok, err := readFooter(file)
	if err != nil {
		return 0, err
	}
	if ok {
		return footer.Offset, nil
	}

	return info.Size(), nil
}
