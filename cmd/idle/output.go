package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/idle-chain/internal/amount"
	"github.com/napolitain/idle-chain/internal/engine"
	"github.com/napolitain/idle-chain/internal/models"
	"github.com/napolitain/idle-chain/internal/solver"
	"github.com/napolitain/idle-chain/internal/tui"
)

func printBanner() {
	titleColor := color.New(color.FgCyan, color.Bold)
	titleColor.Println("\n╭───────────────────────────╮")
	titleColor.Println("│  Idle Chain               │")
	titleColor.Println("╰───────────────────────────╯")
	fmt.Println()
}

func printStatus(e *engine.Engine, st models.GameState) {
	infoColor := color.New(color.FgYellow)
	infoColor.Printf("⚡ Energy: %s (+%s/s)\n\n", amount.FormatRound(st.PrimaryResource), amount.Format(st.PrimaryResourceRate))

	header := []string{"Producer", "Count", "Boost/s", "Output/s"}
	for _, q := range tui.BuyQuantities {
		header = append(header, fmt.Sprintf("+%d", q))
	}
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))

	for _, pt := range e.Visible(st) {
		p := st.Producers[pt.ID]
		row := []string{
			string(pt.ID),
			amount.FormatRound(p.Count),
			amount.Format(p.IncomingBoostRate),
			amount.Format(p.OutputRate),
		}
		for _, q := range tui.BuyQuantities {
			price, err := e.BulkPrice(st, pt.ID, q)
			if err != nil {
				row = append(row, "-")
				continue
			}
			cell := amount.FormatRound(price)
			if e.CanAfford(st, pt.ID, q) {
				cell += " ✓"
			}
			row = append(row, cell)
		}
		_ = table.Append(row)
	}
	_ = table.Render()
}

func printCatalog(c *models.Catalog) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"ID", "Label", "Base Price", "Growth", "Rate", "Feeds Into"}),
	)
	for _, pt := range c.Types() {
		_ = table.Append([]string{
			string(pt.ID),
			pt.Label,
			amount.Format(pt.BasePrice),
			pt.PriceGrowthFactor.String(),
			pt.UnitProductionRate.String(),
			pt.Target.String(),
		})
	}
	_ = table.Render()

	chain := c.ChainOrder()
	order := make([]string, 0, len(chain)+1)
	for i := len(chain) - 1; i >= 0; i-- {
		order = append(order, string(chain[i]))
	}
	order = append(order, "energy")
	fmt.Printf("\nChain: %s\n", strings.Join(order, " → "))
}

func printPlan(plan *solver.Plan, goal amount.Amount) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "At", "Buy", "Cost", "ROI", "Energy After", "Rate After"}),
	)
	for i, step := range plan.Steps {
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			formatMillis(step.AtMillis),
			string(step.Producer),
			amount.FormatRound(step.Cost),
			fmt.Sprintf("%.4f", step.ROI),
			amount.FormatRound(step.Energy),
			amount.Format(step.Rate) + "/s",
		})
	}
	_ = table.Render()

	fmt.Println()
	if plan.ReachedLimit {
		color.Yellow("⚠ Stopped after %d purchases with %s energy (target %s)",
			len(plan.Steps), amount.FormatRound(plan.Final.PrimaryResource), amount.FormatRound(goal))
		return
	}
	color.New(color.FgGreen, color.Bold).Printf("✓ Target reached after %s with %d purchases\n",
		formatMillis(plan.TotalMillis), len(plan.Steps))
}

func formatMillis(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).Round(time.Second).String()
}
