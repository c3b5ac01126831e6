package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	dbPath    string
	category  string
	replace   bool
	batchSize int
	dryRun    bool
	verbose   bool
}

func (c *Config) validate() error {
	if c.dbPath == "" && !c.dryRun {
		return errors.New("--db is required unless --dry-run is set")
	}
	if c.batchSize < 1 {
		return fmt.Errorf("invalid batch size (must be at least 1): %d", c.batchSize)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TRIVIA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "trivia-import [flags] FILE.csv...",
		Short: "Load trivia questions from CSV files into the question bank.",
		Long: `Reads CSV files with the columns id, difficulty, question, answer, reference
and an optional category. The first row of each file is a header. Rows with
fewer than five fields, a blank question or answer, or an unknown difficulty
are skipped and reported. "Difficult" is accepted as an alias for Hard.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.dbPath, "db", "data/trivia.db", "path to the sqlite database (env: TRIVIA_DB)")
	fs.StringVarP(&cfg.category, "category", "c", "bible", "category for rows without a category column (env: TRIVIA_CATEGORY)")
	fs.BoolVar(&cfg.replace, "replace", true, "delete existing questions before importing (env: TRIVIA_REPLACE)")
	fs.IntVar(&cfg.batchSize, "batch-size", 50, "questions inserted per transaction (env: TRIVIA_BATCH_SIZE)")
	fs.BoolVarP(&cfg.dryRun, "dry-run", "n", false, "parse and report without writing (env: TRIVIA_DRY_RUN)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log every skipped row (env: TRIVIA_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}
