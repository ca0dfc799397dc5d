// Command chain unions ranked candidate-correction records into
// equivalence classes headed by a canonical form.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"anacorrect/internal/chain"
	"anacorrect/internal/cliutil"
	"anacorrect/internal/fileio"
)

func main() {
	var common cliutil.Common
	var caseless, debug bool

	cmd := &cobra.Command{
		Use:   "chain [.ranked file]",
		Short: "Union ranked candidate-correction records into head chains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if common.Version {
				fmt.Println(cliutil.Version)
				return nil
			}
			return run(common, args[0], caseless, debug)
		},
	}
	cliutil.AddCommon(cmd, &common)
	cmd.Flags().BoolVar(&caseless, "caseless", false, "fold case before computing the reported edit distance")
	cmd.Flags().BoolVar(&debug, "debug", false, "also print one head/members summary line per chain to stderr")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(common cliutil.Common, inputPath string, caseless, debug bool) error {
	outputPath := common.Output
	if outputPath == "" {
		outputPath = inputPath + ".chained"
	}

	c := chain.New(caseless)
	skipped := 0
	if err := fileio.ForEachLine(inputPath, func(line string) error {
		ok, err := c.Fill(line)
		if err != nil {
			return err
		}
		if !ok {
			skipped++
		}
		return nil
	}); err != nil {
		return err
	}
	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "chain: skipped %d malformed lines\n", skipped)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("chain: creating %s: %w", outputPath, err)
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	defer w.Flush()
	for _, line := range c.Output() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if debug {
		fmt.Fprintln(os.Stderr, strings.Join(c.DebugInfo(), "\n"))
	}
	return nil
}
