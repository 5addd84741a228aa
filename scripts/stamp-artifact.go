package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/Zatyrus/pyminflux-packager/internal/stamp"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintf(os.Stderr, "Usage: %s <artifact> <name> <entry-point>\n", os.Args[0])
		os.Exit(1)
	}

	rec := &stamp.Record{
		BuildID:  uuid.NewString(),
		Name:     os.Args[2],
		Entry:    os.Args[3],
		Platform: runtime.GOOS,
		BuiltAt:  time.Now().UTC(),
	}

	if err := stamp.Apply(os.Args[1], rec); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Stamped %s (build %s)\n", os.Args[1], rec.BuildID)
}
