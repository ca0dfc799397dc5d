// Command ldcalc scores every anagram pair an index file admits,
// emitting ranked candidate-correction records plus an ambiguity file
// of short-word disambiguation hints.
package main

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"anacorrect/internal/anagram"
	"anacorrect/internal/cliutil"
	"anacorrect/internal/confusion"
	"anacorrect/internal/corpus"
	"anacorrect/internal/ldcalc"
	"anacorrect/internal/pipelineconfig"
	"anacorrect/internal/pipelinelog"
)

func main() {
	var common cliutil.Common
	var indexPath, hashPath, cleanPath, alphPath, histPath, diacPath, configPath string
	var noKHCLD bool
	var ld int
	var artifreq uint64

	cmd := &cobra.Command{
		Use:   "ldcalc",
		Short: "Score anagram pairs admitted by an index file",
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
			return run(common, indexPath, hashPath, cleanPath, alphPath, histPath, diacPath, configPath, noKHCLD, ld, artifreq)
		},
	}
	cliutil.AddCommon(cmd, &common)
	cmd.Flags().StringVar(&indexPath, "index", "", "index file from the indexer stage (required)")
	cmd.Flags().StringVar(&hashPath, "hash", "", "anagram-hash file (required)")
	cmd.Flags().StringVar(&cleanPath, "clean", "", "clean (frequency) file (required)")
	cmd.Flags().StringVar(&alphPath, "alph", "", "alphabet file")
	cmd.Flags().StringVar(&histPath, "hist", "", "historical-confusion file")
	cmd.Flags().StringVar(&diacPath, "diac", "", "diacritic-confusion file")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML defaults file")
	cmd.Flags().BoolVar(&noKHCLD, "nohld", false, "bypass the edit-distance gate for historical confusions")
	cmd.Flags().IntVar(&ld, "LD", 0, "maximum accepted edit distance, 1-10 (0 = use config/defaults)")
	cmd.Flags().Uint64Var(&artifreq, "artifrq", 0, "synthetic frequency floor")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func toInt64Set(m map[confusion.Key]bool) map[int64]bool {
	out := make(map[int64]bool, len(m))
	for k := range m {
		out[int64(k)] = true
	}
	return out
}

func run(common cliutil.Common, indexPath, hashPath, cleanPath, alphPath, histPath, diacPath, configPath string, noKHCLD bool, ld int, artifreq uint64) error {
	if indexPath == "" || hashPath == "" || cleanPath == "" {
		return fmt.Errorf("ldcalc: --index, --hash and --clean are required")
	}
	if common.Output == "" {
		return fmt.Errorf("ldcalc: -o/--output is required")
	}

	defaults, err := pipelineconfig.Load(configPath)
	if err != nil {
		return err
	}
	if ld == 0 {
		ld = defaults.LD
	}
	if ld < 1 || ld > 10 {
		return fmt.Errorf("ldcalc: --LD must be in [1,10], got %d", ld)
	}
	if artifreq == 0 {
		artifreq = defaults.Artifreq
	}

	logger := pipelinelog.New("ldcalc")

	buckets, bstats, err := anagram.Load(hashPath)
	if err != nil {
		return err
	}
	if bstats.Skipped > 0 {
		logger.Warnf("skipped %d malformed anagram-hash lines", bstats.Skipped)
	}
	hash := ldcalc.HashSets(buckets)

	freqs, err := corpus.LoadFrequencies(cleanPath, artifreq)
	if err != nil {
		return err
	}
	if freqs.Skipped > 0 {
		logger.Warnf("skipped %d malformed frequency lines", freqs.Skipped)
	}

	var alphabet corpus.Alphabet
	if alphPath != "" {
		alphabet, err = corpus.LoadAlphabet(alphPath)
		if err != nil {
			return err
		}
	}

	var hist, diac map[int64]bool
	if histPath != "" {
		h, err := confusion.LoadFlagSet(histPath)
		if err != nil {
			return err
		}
		if len(h) == 0 {
			logger.Warnf("historical-confusion set is empty after loading %s", histPath)
		}
		hist = toInt64Set(h)
	}
	if diacPath != "" {
		d, err := confusion.LoadFlagSet(diacPath)
		if err != nil {
			return err
		}
		if len(d) == 0 {
			logger.Warnf("diacritic-confusion set is empty after loading %s", diacPath)
		}
		diac = toInt64Set(d)
	}

	out, err := os.Create(common.Output)
	if err != nil {
		return fmt.Errorf("ldcalc: creating %s: %w", common.Output, err)
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	defer w.Flush()

	cfg := ldcalc.Config{LD: ld, ArtiFreq: artifreq, NoKHCLD: noKHCLD, Workers: cliutil.ResolveThreads(common.Threads)}
	var outMu sync.Mutex
	engine := ldcalc.NewEngine(cfg, func(r ldcalc.Record) {
		outMu.Lock()
		fmt.Fprintln(w, r.Format())
		outMu.Unlock()
	}, hash, freqs.Freq, freqs.LowFreq, alphabet, hist, diac)

	progress := pipelinelog.NewProgress(logger, "index lines", 10000)
	if err := engine.ProcessIndexFile(indexPath, progress.Tick); err != nil {
		return err
	}
	progress.Done()

	for _, r := range engine.AmbiguitySummary() {
		fmt.Fprintln(w, r.Format())
	}

	ambiPath := common.Output + ".ambi"
	ambiFile, err := os.Create(ambiPath)
	if err != nil {
		return fmt.Errorf("ldcalc: creating %s: %w", ambiPath, err)
	}
	defer ambiFile.Close()
	ambiW := bufio.NewWriter(ambiFile)
	defer ambiW.Flush()
	if err := engine.WriteAmbiguityFile(func(line string) error {
		_, err := fmt.Fprintln(ambiW, line)
		return err
	}); err != nil {
		return err
	}
	return nil
}
