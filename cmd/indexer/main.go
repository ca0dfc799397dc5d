// Command indexer joins an anagram-hash file against a confusion-key
// file, emitting every (confusion, anagram) pair the two-pointer sweep
// admits.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"anacorrect/internal/anagram"
	"anacorrect/internal/cliutil"
	"anacorrect/internal/confusion"
	"anacorrect/internal/index"
	"anacorrect/internal/pipelineconfig"
	"anacorrect/internal/pipelinelog"
)

func main() {
	var common cliutil.Common
	var hashPath, charconfPath, fociPath, configPath string
	var low, high int

	cmd := &cobra.Command{
		Use:   "indexer",
		Short: "Join an anagram-hash file against a confusion-key file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if common.Version {
				fmt.Println(cliutil.Version)
				return nil
			}
			if !cmd.Flags().Changed("threads") {
				defaults, err := pipelineconfig.Load(configPath)
				if err == nil && defaults.Threads != "" {
					common.Threads = defaults.Threads
				}
			}
			return run(common, hashPath, charconfPath, fociPath, configPath, low, high)
		},
	}
	cliutil.AddCommon(cmd, &common)
	cmd.Flags().StringVar(&hashPath, "hash", "", "anagram-hash file (required)")
	cmd.Flags().StringVar(&charconfPath, "charconf", "", "confusion-key file (required)")
	cmd.Flags().StringVar(&fociPath, "foci", "", "optional foci file restricting emitted pairs")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML defaults file")
	cmd.Flags().IntVar(&low, "low", 0, "minimum admissible word length (0 = use config/defaults)")
	cmd.Flags().IntVar(&high, "high", 0, "maximum admissible word length (0 = use config/defaults)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(common cliutil.Common, hashPath, charconfPath, fociPath, configPath string, low, high int) error {
	if hashPath == "" || charconfPath == "" {
		return fmt.Errorf("indexer: --hash and --charconf are required")
	}
	if common.Output == "" {
		return fmt.Errorf("indexer: -o/--output is required")
	}

	defaults, err := pipelineconfig.Load(configPath)
	if err != nil {
		return err
	}
	if low == 0 {
		low = defaults.Low
	}
	if high == 0 {
		high = defaults.High
	}

	logger := pipelinelog.New("indexer")

	buckets, bstats, err := anagram.Load(hashPath)
	if err != nil {
		return err
	}
	if bstats.Skipped > 0 {
		logger.Warnf("skipped %d malformed anagram-hash lines", bstats.Skipped)
	}
	admissible, askipped := anagram.AdmissibleSet(buckets, low, high)
	if askipped > 0 {
		logger.Infof("excluded %d buckets outside the [%d,%d] length band", askipped, low, high)
	}

	confusions, err := confusion.LoadSorted(charconfPath)
	if err != nil {
		return err
	}

	var foci map[int64]bool
	if fociPath != "" {
		foci, err = confusion.LoadFoci(fociPath)
		if err != nil {
			return err
		}
	}

	workers := cliutil.ResolveThreads(common.Threads)
	logger.Infof("joining %d confusions against %d admissible keys with %d workers", len(confusions), len(admissible), workers)

	result := index.Join(admissible, confusions, foci, workers)

	out, err := os.Create(common.Output)
	if err != nil {
		return fmt.Errorf("indexer: creating %s: %w", common.Output, err)
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	defer w.Flush()

	written := 0
	for _, c := range confusions {
		as, ok := result[c]
		if !ok || len(as) == 0 {
			continue
		}
		strs := make([]string, len(as))
		for i, a := range as {
			strs[i] = strconv.FormatInt(int64(a), 10)
		}
		if _, err := fmt.Fprintf(w, "%d#%s\n", int64(c), strings.Join(strs, ",")); err != nil {
			return err
		}
		written++
	}
	logger.Infof("wrote %d non-empty index lines", written)
	return nil
}
