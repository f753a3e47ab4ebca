// Package verifier implements the offline --verify mode: it checks that
// every expected demo clip exists and looks complete, without touching the
// network.
package verifier

import (
	"fmt"
	"os"
	"path/filepath"

	"voice-demos/internal/catalog"
)

// MinClipSize is the completeness heuristic: clips under 2KB are almost
// certainly truncated writes or error bodies saved by older runs.
const MinClipSize = 2048

// SmallFile is a clip that exists but is under MinClipSize.
type SmallFile struct {
	Item catalog.WorkItem
	Size int64
}

// Result classifies every expected clip.
type Result struct {
	Total    int
	Missing  []catalog.WorkItem
	TooSmall []SmallFile
}

// OK reports whether every expected clip is present and large enough.
func (r Result) OK() bool {
	return len(r.Missing) == 0 && len(r.TooSmall) == 0
}

// Check stats each expected output file under outDir.
func Check(outDir, format string, work []catalog.WorkItem) Result {
	res := Result{Total: len(work)}
	for _, item := range work {
		path := filepath.Join(outDir, item.Filename(format))
		info, err := os.Stat(path)
		if err != nil {
			res.Missing = append(res.Missing, item)
			continue
		}
		if info.Size() < MinClipSize {
			res.TooSmall = append(res.TooSmall, SmallFile{Item: item, Size: info.Size()})
		}
	}
	return res
}

// Print writes the verification report to stdout.
func (r Result) Print(format string) {
	if len(r.Missing) > 0 {
		fmt.Println("Missing clips:")
		for _, item := range r.Missing {
			fmt.Printf("  - %s\n", item.Filename(format))
		}
	}
	if len(r.TooSmall) > 0 {
		fmt.Printf("Suspiciously small clips (<%dB):\n", MinClipSize)
		for _, sf := range r.TooSmall {
			fmt.Printf("  - %s (%d bytes)\n", sf.Item.Filename(format), sf.Size)
		}
	}
	if r.OK() {
		fmt.Printf("All %d clips present and >= %dB.\n", r.Total, MinClipSize)
	}
}
