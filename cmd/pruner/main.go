package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkomon/pruner/internal/config"
	"github.com/mkomon/pruner/internal/fs"
	"github.com/mkomon/pruner/internal/logging"
	"github.com/mkomon/pruner/internal/prune"
	"github.com/mkomon/pruner/internal/report"
)

var (
	flagConfig  string
	flagExt     string
	flagSize    int64
	flagDaily   int
	flagWeekly  int
	flagMonthly int
	flagYearly  int
	flagToday   string
	flagDryRun  bool
	flagYes     bool
	flagFuture  bool
	flagVerbose bool

	rootCmd = &cobra.Command{
		Use:   "pruner [files or directory]",
		Short: "Prune backup files, keeping daily/weekly/monthly/yearly generations",
		Long: `Prune groups timestamped backup files into sets, applies a generational
retention policy and proposes files for deletion. Nothing is deleted
without confirmation; use the daemon subcommand for unattended operation.`,
		Args:          cobra.ArbitraryArgs,
		RunE:          runPrune,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file")

	rootCmd.Flags().StringVarP(&flagExt, "ext", "e", "gz.gpg", "process only files with the given extension")
	rootCmd.Flags().Int64VarP(&flagSize, "size", "s", 512_000, "warn if a file is smaller than x bytes; 0 to disable")
	rootCmd.Flags().IntVar(&flagDaily, "daily", 7, "number of daily backups to keep")
	rootCmd.Flags().IntVar(&flagWeekly, "weekly", 12, "number of weekly backups to keep")
	rootCmd.Flags().IntVar(&flagMonthly, "monthly", 6, "number of monthly backups to keep")
	rootCmd.Flags().IntVar(&flagYearly, "yearly", 5, "number of yearly backups to keep")
	rootCmd.Flags().StringVar(&flagToday, "today", "", "reference date (YYYY-MM-DD), default: current date")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "show the plan and exit without deleting")
	rootCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "skip confirmation prompt and safety delay")
	rootCmd.Flags().BoolVar(&flagFuture, "allow-future", false, "keep files dated after the reference date instead of flagging them")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers changed command-line flags over the config file (or
// the built-in defaults).
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("ext") {
		cfg.Scan.Extension = flagExt
	}
	if cmd.Flags().Changed("size") {
		cfg.Scan.MinSize = flagSize
	}
	if cmd.Flags().Changed("allow-future") {
		cfg.Policy.AllowFuture = flagFuture
	}
	if cmd.Flags().Changed("daily") || cmd.Flags().Changed("weekly") ||
		cmd.Flags().Changed("monthly") || cmd.Flags().Changed("yearly") {
		cfg.Policy.Windows = []config.WindowConfig{
			{Period: string(prune.Daily), Count: flagDaily},
			{Period: string(prune.Weekly), Count: flagWeekly},
			{Period: string(prune.Monthly), Count: flagMonthly},
			{Period: string(prune.Yearly), Count: flagYearly},
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if flagVerbose {
		level = "debug"
	}
	log := logging.New(level, cfg.Logging.Format)

	today := time.Now()
	if flagToday != "" {
		today, err = time.Parse("2006-01-02", flagToday)
		if err != nil {
			return fmt.Errorf("invalid --today value %q: %w", flagToday, err)
		}
	}

	windows, err := cfg.Policy.EngineWindows()
	if err != nil {
		return err
	}

	filesystem := fs.New()
	files, err := gatherFiles(filesystem, cfg.Scan.Path, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn("no files found to process, check the extension filter", "ext", cfg.Scan.Extension)
		return nil
	}

	plan := prune.BuildPlan(prune.Request{
		Files:       files,
		Extension:   cfg.Scan.Extension,
		MinSize:     cfg.Scan.MinSize,
		Windows:     windows,
		Today:       today,
		AllowFuture: cfg.Policy.AllowFuture,
	})

	report.Render(os.Stdout, plan)

	prunable := plan.Prunable()
	if len(prunable) == 0 || flagDryRun {
		return nil
	}

	return applyPlan(log, filesystem, plan)
}

// gatherFiles resolves the positional arguments: nothing (scan the
// configured directory), a single directory, or an explicit file list.
func gatherFiles(filesystem fs.FS, defaultDir string, args []string) ([]fs.FileInfo, error) {
	if len(args) == 1 {
		if st, err := os.Stat(args[0]); err == nil && st.IsDir() {
			return filesystem.ReadDir(args[0])
		}
	}
	if len(args) == 0 {
		return filesystem.ReadDir(defaultDir)
	}

	files := make([]fs.FileInfo, 0, len(args))
	for _, a := range args {
		info, err := filesystem.Stat(a)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", a, err)
		}
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool {
		return filepath.Base(files[i].Path) < filepath.Base(files[j].Path)
	})
	return files, nil
}
