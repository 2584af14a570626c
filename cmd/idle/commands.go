package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/idle-chain/internal/amount"
	"github.com/napolitain/idle-chain/internal/loader"
	"github.com/napolitain/idle-chain/internal/models"
	"github.com/napolitain/idle-chain/internal/solver"
	"github.com/napolitain/idle-chain/internal/tui"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			runErr := tui.Run(ctx, a.session, a.cfg.TickInterval)
			if err := a.Close(context.Background()); err != nil {
				return err
			}
			return runErr
		},
	}
}

func newRunCmd() *cobra.Command {
	var report time.Duration
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation headless until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if report > 0 {
				go func() {
					t := time.NewTicker(report)
					defer t.Stop()
					for {
						select {
						case <-ctx.Done():
							return
						case <-t.C:
							st := a.session.State()
							a.logger.Info("status",
								"energy", amount.FormatRound(st.PrimaryResource),
								"rate", amount.Format(st.PrimaryResourceRate),
								"producers", len(st.Producers))
						}
					}
				}()
			}

			a.logger.Info("simulation started", "tick", a.cfg.TickInterval, "save_interval", a.cfg.SaveInterval)
			if err := a.session.Run(ctx, a.cfg.TickInterval); err != nil {
				return err
			}
			a.logger.Info("simulation stopped")
			return nil
		},
	}
	cmd.Flags().DurationVar(&report, "report", 10*time.Second, "Interval between status log lines (0 disables)")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved game, including progress made while away",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			st := a.session.Tick()
			if !quiet {
				printBanner()
			}
			printStatus(a.session.Engine(), st)
			return a.Close(cmd.Context())
		},
	}
}

func newBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <producer> [quantity]",
		Short: "Buy producers with the saved game's energy",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty := int64(1)
			if len(args) == 2 {
				n, err := strconv.ParseInt(args[1], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid quantity %q: %w", args[1], err)
				}
				qty = n
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			id := models.ProducerID(args[0])
			st, buyErr := a.session.Buy(id, qty)
			if err := a.Close(cmd.Context()); err != nil {
				return err
			}
			if buyErr != nil {
				return fmt.Errorf("purchase failed: %w", buyErr)
			}

			color.New(color.FgGreen, color.Bold).Printf("✓ Bought %d %s\n", qty, id)
			if !quiet {
				printStatus(a.session.Engine(), st)
			}
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard all progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			if _, err := a.session.Reset(cmd.Context()); err != nil {
				a.store.Close()
				return err
			}
			color.Green("✓ Progress reset")
			return a.Close(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}

func newPlanCmd() *cobra.Command {
	var (
		target   string
		horizon  time.Duration
		maxSteps int
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan the fastest purchase order to reach an energy target",
		Long: `Simulates the saved game forward and greedily buys the producer whose
purchase yields the most extra energy per unit of cost over the horizon.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			goal, err := amount.Parse(target)
			if err != nil {
				return fmt.Errorf("invalid target %q: %w", target, err)
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			st := a.session.Tick()
			if err := a.Close(cmd.Context()); err != nil {
				return err
			}

			if !quiet {
				printBanner()
				color.New(color.FgYellow).Printf("🔄 Planning from %s energy to %s...\n\n",
					amount.FormatRound(st.PrimaryResource), amount.FormatRound(goal))
			}

			planner := solver.NewPlanner(a.session.Engine())
			planner.HorizonMillis = horizon.Milliseconds()
			planner.MaxSteps = maxSteps
			plan, err := planner.Solve(st, goal)
			if err != nil {
				return err
			}
			printPlan(plan, goal)
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "1e6", "Energy to reach")
	cmd.Flags().DurationVar(&horizon, "horizon", 10*time.Minute, "How far ahead each purchase's payoff is simulated")
	cmd.Flags().IntVar(&maxSteps, "max-steps", solver.DefaultMaxSteps, "Maximum number of purchases")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List every producer type",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loader.DefaultCatalog()
			if err != nil {
				return err
			}
			printCatalog(catalog)
			return nil
		},
	}
}
