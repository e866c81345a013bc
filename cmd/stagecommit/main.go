package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hoanghonghuy/stagecommit/internal/app"
	"github.com/hoanghonghuy/stagecommit/internal/config"
)

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

func runCLI(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "stagecommit"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f flagValues

	// settings loads the file config and resolves every value for cmd.
	settings := func(cmd *cobra.Command) (app.Config, error) {
		fc, err := config.Load(f.configPath)
		if err != nil {
			return app.Config{}, err
		}
		cfg, err := resolveSettings(f, cmd.Flags().Changed, os.Getenv, fc)
		if err != nil {
			return app.Config{}, err
		}
		if cfg.ConfigPath == "" {
			cfg.ConfigPath = config.DefaultPath()
		}
		cfg.Logger = newLogger(stderr, f.verbose)
		cfg.Out = stdout
		cfg.Logger.Debug("settings resolved", "provider", cfg.Provider.String(), "history", cfg.History, "keep_body", cfg.KeepBody)
		return cfg, nil
	}

	suggest := func(cmd *cobra.Command, args []string) error {
		cfg, err := settings(cmd)
		if err != nil {
			return err
		}
		return app.Suggest(cmd.Context(), cfg)
	}

	root := &cobra.Command{
		Use:   "stagecommit",
		Short: "Generate commit messages for staged changes with an LLM",
		Long: `stagecommit reads the staged diff and asks a language model for a
Conventional Commits message in a few focused steps: optional history
analysis, diff analysis, structured info extraction and message synthesis.`,
		Example: `  # Suggest a message for the staged changes and copy it to the clipboard
  stagecommit

  # Review, edit or regenerate before committing
  stagecommit suggest -i

  # Learn from the last 20 commits and keep an audit of every stage
  stagecommit --history --history-count 20 --audit

  # Use a hosted backend
  stagecommit --provider anthropic --model claude-3-5-sonnet-20240620`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          suggest,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Config file (.json or .toml, default ~/"+config.DefaultFileName+")")
	pf.StringVar(&f.repo, "repo", "", "Path to the git repository (default: current directory)")
	pf.StringVar(&f.provider, "provider", "", "Backend: ollama, anthropic, openai, gemini (env STAGECOMMIT_PROVIDER)")
	pf.StringVar(&f.model, "model", "", "Model name (env STAGECOMMIT_MODEL)")
	pf.StringVar(&f.baseURL, "base-url", "", "Backend base URL (env STAGECOMMIT_BASE_URL)")
	pf.StringVar(&f.apiKey, "api-key", "", "API key for hosted backends")
	pf.Float64Var(&f.temperature, "temperature", app.DefaultTemperature, "Sampling temperature (0.0 - 2.0)")
	pf.IntVar(&f.maxTokens, "max-tokens", app.DefaultMaxTokens, "Response length limit per request")
	pf.DurationVar(&f.timeout, "timeout", app.DefaultTimeout, "Per-request timeout (0 disables)")
	pf.BoolVar(&f.history, "history", false, "Analyze recent commits before the diff")
	pf.IntVar(&f.historyCount, "history-count", app.DefaultHistoryCount, "Number of recent commits to analyze")
	pf.BoolVar(&f.historyPatches, "history-patches", false, "Include each commit's patch in the history")
	pf.BoolVar(&f.keepBody, "keep-body", false, "Keep the message body instead of a single line")
	pf.IntVar(&f.maxDiffBytes, "max-diff-bytes", app.DefaultMaxDiffBytes, "Truncate the staged diff beyond this size (0 disables)")
	pf.StringSliceVar(&f.ignore, "ignore", nil, "Extra glob patterns to leave out of the diff")
	pf.StringVar(&f.audit, "audit", "", "Write every stage output to this markdown file")
	pf.Lookup("audit").NoOptDefVal = app.DefaultAuditPath
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Log each stage and its output")

	addSuggestFlags := func(cmd *cobra.Command) {
		cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "Review the message before committing")
		cmd.Flags().BoolVar(&f.noClipboard, "no-clipboard", false, "Do not copy the message to the clipboard")
		cmd.Flags().StringVar(&f.hookFile, "hook", "", "Write the message to this file (used by the git hook)")
	}
	addSuggestFlags(root)

	suggestCmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest a commit message for the staged changes",
		Args:  cobra.NoArgs,
		RunE:  suggest,
	}
	addSuggestFlags(suggestCmd)

	root.AddCommand(
		suggestCmd,
		newBatchCmd(settings),
		newDoctorCmd(settings),
		newConfigCmd(&f),
		newInstallHookCmd(&f),
	)
	return root
}

type settingsFunc func(cmd *cobra.Command) (app.Config, error)

func newBatchCmd(settings settingsFunc) *cobra.Command {
	var opts app.BatchOptions
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Suggest messages for recent commits",
		Long: `batch reruns the message pipeline for each of the last N commits, using
each commit's patch as the diff, and prints the suggestions next to the
original subjects. Nothing is rewritten.`,
		Example: `  # Compare the last 10 subjects with fresh suggestions
  stagecommit batch --since 10

  # Four requests at a time, JSON for scripts
  stagecommit batch --since 50 --jobs 4 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := settings(cmd)
			if err != nil {
				return err
			}
			return app.RunBatch(cmd.Context(), cfg, opts)
		},
	}
	cmd.Flags().IntVar(&opts.Since, "since", 10, "Process the last N commits")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 2, "Pipelines to run at once")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Emit results as JSON")
	return cmd
}

func newDoctorCmd(settings settingsFunc) *cobra.Command {
	var ping bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Show the resolved backend and optionally check it answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := settings(cmd)
			if err != nil {
				return err
			}
			return app.Doctor(cmd.Context(), cfg, ping)
		},
	}
	cmd.Flags().BoolVar(&ping, "ping", false, "Send a short prompt to the backend")
	return cmd
}

func newConfigCmd(f *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Edit the settings file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.EditConfig(f.configPath)
		},
	}
}

func newInstallHookCmd(f *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "install-hook",
		Short: "Install a prepare-commit-msg hook that runs stagecommit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.InstallHook(cmd.Context(), f.repo)
		},
	}
}
