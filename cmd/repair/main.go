// cmd/repair/main.go

// Command repair runs Consistency Repair over every stored user record.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/deepanshu089/linkedin-lite/internal/config"
	"github.com/deepanshu089/linkedin-lite/internal/database"
	"github.com/deepanshu089/linkedin-lite/internal/relationship"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	dryRun    bool
	batchSize int
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Repair friend and pending-request data for all users",
		Long: `Pages through every user record and drops dangling, duplicate,
self-referencing and stale pending requests, plus friend ids that no longer
resolve. Records are saved with the service's conditional write, so the
sweep can run while the service is live. Pairs holding requests in both
directions keep only the earliest. Friendships listed on one side only are
unfriended when the other side holds no request that an accept could still
finish; the rest are reported.

Example:
  repair --dry-run
  repair --batch-size 500`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report repairs without saving them")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", relationship.DefaultSweepBatchSize, "records read per page")
	return cmd
}

func run(ctx context.Context, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Store != "postgres" {
		return fmt.Errorf("repair needs STORE=postgres, got %q", cfg.Store)
	}
	logger := cfg.NewLogger()

	if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
		return err
	}
	defer database.DB.Close()

	users := database.NewUserStore(database.DB)
	engine := relationship.NewEngine(users, relationship.Options{
		MaxRetries: cfg.MaxRetries,
		OpTimeout:  cfg.StoreOpTimeout,
		Logger:     logger,
	})

	rep, err := engine.Sweep(ctx, users, relationship.SweepOptions{
		BatchSize: opts.batchSize,
		DryRun:    opts.dryRun,
	})
	logger.WithFields(logrus.Fields{
		"dry_run":            opts.dryRun,
		"scanned":            rep.Scanned,
		"repaired":           rep.Repaired,
		"dangling_requests":  rep.Dropped.DanglingRequests,
		"duplicate_requests": rep.Dropped.DuplicateRequests,
		"self_requests":      rep.Dropped.SelfRequests,
		"stale_requests":     rep.Dropped.StaleRequests,
		"dropped_friends":    rep.Dropped.DroppedFriends,
		"crossed_requests":   rep.Crossed,
		"asymmetric_friends": rep.Asymmetric,
		"healed_friends":     rep.Healed,
	}).Info("repair sweep finished")
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "repair:", err)
		os.Exit(1)
	}
}
