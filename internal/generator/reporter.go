package generator

import (
	"fmt"
)

// failureDisplayWidth caps failure messages in the summary; full detail is
// only ever in the logs.
const failureDisplayWidth = 140

// Print writes the end-of-batch summary to stdout.
func (o Outcome) Print() {
	fmt.Println()
	fmt.Printf("Completed: %d/%d clips\n", o.Done, o.Total)
	if len(o.Failures) == 0 {
		return
	}
	fmt.Println("Failures:")
	for _, f := range o.Failures {
		fmt.Printf("  - %s-%s: %s\n", f.Item.Lang, f.Item.Voice,
			truncate(f.Err.Error(), failureDisplayWidth))
	}
}

// ExitCode maps the outcome to the process exit status: 0 all done, 2
// strict-mode abort, 4 completed with failures.
func (o Outcome) ExitCode() int {
	if len(o.Failures) == 0 {
		return 0
	}
	if o.Halted {
		return 2
	}
	return 4
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
