// Command chainclean prunes a chained-correction file produced by
// chain, dropping short multi-token variants and ones already explained
// by a resolved unigram correction.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"anacorrect/internal/chainclean"
	"anacorrect/internal/cliutil"
)

func main() {
	var common cliutil.Common
	var lexiconPath string
	var artifreq uint64
	var low int
	var follow []string

	cmd := &cobra.Command{
		Use:   "chainclean [.chained file]",
		Short: "Prune a chained-correction file against a validated lexicon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if common.Version {
				fmt.Println(cliutil.Version)
				return nil
			}
			return run(common, args[0], lexiconPath, artifreq, low, follow)
		},
	}
	cliutil.AddCommon(cmd, &common)
	cmd.Flags().StringVar(&lexiconPath, "lexicon", "", "validated lexicon file, sorted descending by frequency (required)")
	cmd.Flags().Uint64Var(&artifreq, "artifrq", 100000000, "minimum frequency a lexicon entry must reach to count as validated")
	cmd.Flags().IntVar(&low, "low", 5, "concatenated multi-token variants at or below this length are dropped")
	cmd.Flags().StringArrayVar(&follow, "follow", nil, "comma-separated words to trace verbosely (repeatable)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func followSet(values []string) map[string]bool {
	set := make(map[string]bool)
	for _, v := range values {
		for _, w := range strings.Split(v, ",") {
			w = strings.TrimSpace(w)
			if w != "" {
				set[w] = true
			}
		}
	}
	return set
}

func run(common cliutil.Common, inputPath, lexiconPath string, artifreq uint64, low int, follow []string) error {
	if lexiconPath == "" {
		return fmt.Errorf("chainclean: --lexicon is required")
	}
	outputPath := common.Output
	if outputPath == "" {
		outputPath = inputPath + ".cleaned"
	}

	validWords, err := chainclean.LoadLexicon(lexiconPath, artifreq)
	if err != nil {
		return err
	}

	records, err := chainclean.LoadRecords(inputPath)
	if err != nil {
		return fmt.Errorf("chainclean: loading %s: %w", inputPath, err)
	}

	engine := chainclean.NewEngine(validWords, low, followSet(follow))
	engine.Trace = func(format string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, "chainclean: "+format+"\n", args...)
	}

	kept, deleted := engine.Clean(records)

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("chainclean: creating %s: %w", outputPath, err)
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	defer w.Flush()
	for _, r := range kept {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}

	delPath := outputPath + ".deleted"
	delFile, err := os.Create(delPath)
	if err != nil {
		return fmt.Errorf("chainclean: creating %s: %w", delPath, err)
	}
	defer delFile.Close()
	dw := bufio.NewWriter(delFile)
	defer dw.Flush()
	for _, r := range deleted {
		if _, err := fmt.Fprintln(dw, r.String()); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "chainclean: kept %d, deleted %d\n", len(kept), len(deleted))
	return nil
}
