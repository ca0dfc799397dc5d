// Package cliutil holds the flags shared by every stage binary's root
// command: -h, -V, -v repeatable, -o, -t/--threads.
package cliutil

import (
	"fmt"

	"github.com/spf13/cobra"

	"anacorrect/internal/index"
)

// Common bundles the flag values every stage shares.
type Common struct {
	Verbosity int
	Output    string
	Threads   string
	Version   bool
}

// Version is the reported --version/-V string.
const Version = "anacorrect 1.0"

// AddCommon registers the shared flags on cmd.
func AddCommon(cmd *cobra.Command, c *Common) {
	cmd.Flags().CountVarP(&c.Verbosity, "verbose", "v", "increase verbosity (repeatable)")
	cmd.Flags().StringVarP(&c.Output, "output", "o", "", "name of the output file")
	cmd.Flags().StringVarP(&c.Threads, "threads", "t", "1", `number of worker threads ("max" = NumCPU-2)`)
	cmd.Flags().BoolVarP(&c.Version, "version", "V", false, "show version")
}

// ResolveThreads turns the --threads flag value into a worker count,
// honoring the "max" sentinel.
func ResolveThreads(value string) int {
	if value == "max" {
		return index.DefaultWorkers(true, 0)
	}
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n < 1 {
		return 1
	}
	return n
}
