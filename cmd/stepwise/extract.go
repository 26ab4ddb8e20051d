package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/stepwise/internal/config"
	"github.com/crimson-sun/stepwise/internal/logging"
	"github.com/crimson-sun/stepwise/internal/output"
	"github.com/crimson-sun/stepwise/internal/output/async"
	"github.com/crimson-sun/stepwise/internal/output/file"
	"github.com/crimson-sun/stepwise/internal/output/multi"
	"github.com/crimson-sun/stepwise/internal/output/stdout"
	"github.com/crimson-sun/stepwise/internal/output/store"
	"github.com/crimson-sun/stepwise/internal/output/webhook"
	"github.com/crimson-sun/stepwise/internal/pipeline"
	"github.com/crimson-sun/stepwise/internal/source"
)

func newExtractCmd() *cobra.Command {
	var (
		configPath string
		provider   string
		formats    string
		outDir     string
		dbPath     string
		webhookURL string
		verbosity  string
		suffix     string
		pretty     bool
		asyncMode  bool
	)

	cmd := &cobra.Command{
		Use:   "extract [path]",
		Short: "Extract command info from a session log file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.Source.Path = args[0]
			applyFlags(cmd, &cfg, provider, formats, outDir, dbPath, webhookURL, verbosity, suffix, pretty)

			logging.Init(usesStdout(cfg.Output.Format), logging.ParseLevel(cfg.Log.Level))

			ctor, err := source.Get(cfg.Source.Provider)
			if err != nil {
				return err
			}
			paths, err := ctor().Discover(cmd.Context(), source.Config{
				Provider: cfg.Source.Provider,
				Path:     cfg.Source.Path,
				Suffix:   cfg.Source.Suffix,
			})
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no session logs found under %s", cfg.Source.Path)
			}

			out, err := buildOutput(cfg.Output)
			if err != nil {
				return err
			}
			if asyncMode {
				out = async.New(out)
			}
			defer out.Close()

			return pipeline.New().Run(cmd.Context(), paths, out)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default ~/.stepwise/config.yaml)")
	cmd.Flags().StringVar(&provider, "source", "", "source provider: file or dir (default: file; dir when path is a directory)")
	cmd.Flags().StringVarP(&formats, "output", "o", "", "comma-separated outputs: stdout, file, store, webhook")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for file output artifacts")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite archive path for store output")
	cmd.Flags().StringVar(&webhookURL, "webhook-url", "", "callback URL for webhook output")
	cmd.Flags().StringVar(&verbosity, "verbosity", "", "exec_info retention: minimal, standard, full")
	cmd.Flags().StringVar(&suffix, "suffix", "", "session log filename suffix for directory scans")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty-print stdout JSON")
	cmd.Flags().BoolVar(&asyncMode, "async", false, "deliver documents in the background")
	return cmd
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, provider, formats, outDir, dbPath, webhookURL, verbosity, suffix string, pretty bool) {
	if provider != "" {
		cfg.Source.Provider = provider
	} else if isDir, err := statPath(cfg.Source.Path); err == nil && isDir {
		cfg.Source.Provider = "dir"
	}
	if formats != "" {
		cfg.Output.Format = formats
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if dbPath != "" {
		cfg.Output.DBPath = dbPath
	}
	if webhookURL != "" {
		cfg.Output.WebhookURL = webhookURL
	}
	if verbosity != "" {
		cfg.Output.Verbosity = verbosity
	}
	if suffix != "" {
		cfg.Source.Suffix = suffix
	}
	if cmd.Flags().Changed("pretty") {
		cfg.Output.Pretty = pretty
	}
}

// buildOutput assembles the configured destination; several comma-separated
// formats fan out through a multi output.
func buildOutput(cfg config.OutputConfig) (output.Output, error) {
	verbosity := output.ParseVerbosity(cfg.Verbosity)

	var outs []output.Output
	for _, format := range strings.Split(cfg.Format, ",") {
		switch strings.TrimSpace(format) {
		case "stdout":
			outs = append(outs, stdout.New(verbosity, cfg.Pretty))
		case "file":
			o, err := file.New(cfg.Dir, verbosity)
			if err != nil {
				return nil, err
			}
			outs = append(outs, o)
		case "store":
			if cfg.DBPath == "" {
				return nil, fmt.Errorf("store output requires --db")
			}
			o, err := store.New(cfg.DBPath)
			if err != nil {
				return nil, err
			}
			outs = append(outs, o)
		case "webhook":
			if cfg.WebhookURL == "" {
				return nil, fmt.Errorf("webhook output requires --webhook-url")
			}
			outs = append(outs, webhook.New(cfg.WebhookURL))
		case "":
		default:
			return nil, fmt.Errorf("unknown output format: %s", format)
		}
	}
	switch len(outs) {
	case 0:
		return nil, fmt.Errorf("no output configured")
	case 1:
		return outs[0], nil
	default:
		return multi.New(outs...), nil
	}
}

// statPath reports whether path exists and is a directory.
func statPath(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func usesStdout(formats string) bool {
	for _, f := range strings.Split(formats, ",") {
		if strings.TrimSpace(f) == "stdout" {
			return true
		}
	}
	return false
}
