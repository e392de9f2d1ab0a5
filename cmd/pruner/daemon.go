package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkomon/pruner/internal/config"
	"github.com/mkomon/pruner/internal/logging"
	"github.com/mkomon/pruner/internal/mailbox"
	"github.com/mkomon/pruner/internal/watcher"
	"github.com/mkomon/pruner/internal/worker"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch the backup directory and prune on changes or schedule",
	Long: `Run unattended: watch the configured directory for new backup files
(fsnotify or polling), coalesce bursts into single prune passes, and
optionally also prune on a cron schedule. Files are only deleted when
daemon.apply is enabled in the config.`,
	RunE: runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	if flagConfig == "" {
		return fmt.Errorf("daemon mode requires --config")
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down")
		cancel()
	}()

	// Mailbox for prune jobs
	mb := mailbox.New[worker.Job]()

	// Worker (plan + optional apply)
	w := worker.New(cfg, log, nil, mb)

	// Watcher (detects new backup files and pushes into mailbox)
	watch := watcher.New(cfg, log, mb)

	// Cron schedule, if configured
	sched, err := w.StartSchedule()
	if err != nil {
		return err
	}
	if sched != nil {
		defer sched.Stop()
	}

	go w.Start(ctx)

	go func() {
		if err := watch.Start(ctx); err != nil {
			log.Error("watcher failed", "error", err)
			cancel()
		}
	}()

	// Initial pass so a freshly started daemon converges immediately.
	mb.Put(worker.Job{Trigger: "manual", Timestamp: time.Now()})

	// Hot reload on SIGHUP. Schedule changes need a restart.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP)

		for range sigCh {
			newCfg, err := config.Load(flagConfig)
			if err != nil {
				log.Error("config reload failed", "error", err)
				continue
			}

			w.UpdateConfig(newCfg)
			watch.UpdateConfig(newCfg)

			log.Info("config reloaded")
		}
	}()

	<-ctx.Done()
	log.Info("exit complete")
	return nil
}
