package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"NewsRoundup/internal/app"
	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/usecase"
)

func newRootCommand(application *app.Application, logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "newsroundup",
		Short:         "Build the Daily News Roundup digest",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRunCommand(application),
		newWorkflowCommand(application),
		newServeCommand(application, logger),
	)

	return root
}

func newRunCommand(application *app.Application) *cobra.Command {
	var (
		hours   int
		dryRun  bool
		preview bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline and create a campaign draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := usecase.RunOptions{
				Window:      windowFor(hours),
				DryRun:      dryRun,
				PreviewOnly: preview,
				OutputDir:   output,
			}

			result, err := application.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printResult(cmd, result, dryRun)
			return nil
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 0, "hours back to look for stories (default: auto-detect by weekday)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show story counts without generating anything")
	cmd.Flags().BoolVar(&preview, "preview", false, "generate the preview only, skip the campaign draft")
	cmd.Flags().StringVar(&output, "output", "drafts", "directory for the preview HTML")

	return cmd
}

func newWorkflowCommand(application *app.Application) *cobra.Command {
	var (
		hours  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Run the guided workflow with the interactive feedback loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			window := windowFor(hours)
			fmt.Fprintln(cmd.OutOrStdout(), window.Note)
			if !domain.IsPublishDay(window.Until) {
				fmt.Fprintln(cmd.OutOrStdout(), "Warning: today is not a normal publish day (the roundup runs Mon-Thu).")
			}

			opts := usecase.RunOptions{
				Window:      window,
				Interactive: true,
				OutputDir:   output,
				Input:       cmd.InOrStdin(),
				Output:      cmd.OutOrStdout(),
			}

			result, err := application.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			printResult(cmd, result, false)
			return nil
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 0, "hours back to look for stories (default: auto-detect by weekday)")
	cmd.Flags().StringVar(&output, "output", "drafts", "directory for the preview HTML")

	return cmd
}

func newServeCommand(application *app.Application, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled roundup builds until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := application.StartScheduler(ctx); err != nil {
				return fmt.Errorf("start scheduler: %w", err)
			}
			logger.Info("scheduler started", "cron", application.Config().Scheduler.CronExpression)

			<-ctx.Done()
			return application.StopScheduler(cmd.Context())
		},
	}
}

func windowFor(hours int) domain.EditionWindow {
	now := time.Now()
	if hours > 0 {
		return domain.WindowForHours(now, hours)
	}
	return domain.WindowFor(now)
}

func printResult(cmd *cobra.Command, result *usecase.RunResult, dryRun bool) {
	out := cmd.OutOrStdout()

	if dryRun {
		fmt.Fprintf(out, "Dry run complete: %d stories fetched\n", result.Fetched)
		return
	}

	fmt.Fprintln(out, "Stories by section:")
	total := 0
	for name, count := range result.Sections.Counts() {
		fmt.Fprintf(out, "  %s: %d\n", name, count)
		total += count
	}
	fmt.Fprintf(out, "  Total: %d\n", total)

	if result.PreviewPath != "" {
		fmt.Fprintf(out, "Preview saved: %s\n", result.PreviewPath)
	}
	if result.CampaignID != "" {
		fmt.Fprintf(out, "Campaign draft created: %s\n", result.CampaignID)
	}
}
