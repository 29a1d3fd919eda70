package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/piwi3910/boardcut/internal/engine"
	"github.com/piwi3910/boardcut/internal/gcode"
	"github.com/piwi3910/boardcut/internal/model"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printSolution writes the boards, their placements and the totals.
func printSolution(w io.Writer, sol model.Solution) {
	fmt.Fprintf(w, "Strategy: %s (run %s)\n", sol.Strategy, sol.ID)
	fmt.Fprintf(w, "Boards: %d, Pieces: %d\n", sol.BoardCount(), sol.PieceCount())
	fmt.Fprintf(w, "Total cost: %s (cutting %s)\n", sol.TotalCost, sol.CuttingCost())
	fmt.Fprintf(w, "Explored: %d, Pruned: %d, Elapsed: %s\n\n", sol.Stats.Explored, sol.Stats.Pruned, sol.Stats.Elapsed)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, b := range sol.Boards {
		fmt.Fprintf(tw, "Board %d\tmargin %d\tcutting %s\tefficiency %.1f%%\n",
			b.ID, b.Margin, b.CuttingCost, b.Efficiency())
		for _, p := range b.Pieces {
			fmt.Fprintf(tw, "  %s\t%dx%d\tat (%d, %d)\t\n", p.DisplayName(), p.Height, p.Width, p.X, p.Y)
		}
	}
	tw.Flush()
}

// printEstimate writes the area lower bound that no strategy can beat.
func printEstimate(w io.Writer, est model.Estimate) {
	fmt.Fprintf(w, "Lower bound: %d boards (%.2f by area), %s\n",
		est.BoardsNeededMin, est.BoardsNeededExact, est.MinimumCost)
}

func printComparison(w io.Writer, results []engine.ComparisonResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Strategy\tBoards\tTotal\tCutting\tEfficiency\tExplored\tPruned")
	for _, r := range results {
		if r.Skipped {
			fmt.Fprintf(tw, "%s\tskipped: %s\t\t\t\t\t\n", r.Scenario.Name, r.Reason)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%.1f%%\t%d\t%d\n",
			r.Scenario.Name, r.BoardsUsed, r.TotalCost, r.CuttingCost, r.Efficiency, r.Explored, r.Pruned)
	}
	tw.Flush()

	if best := engine.Cheapest(results); best >= 0 {
		fmt.Fprintf(w, "\nCheapest: %s\n", results[best].Scenario.Name)
	}
}

func printProfiles(w io.Writer, builtin, custom []gcode.Profile, selected string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(p gcode.Profile, kind string) {
		mark := " "
		if p.Name == selected {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\n", mark, p.Name, kind, p.Description)
	}
	for _, p := range custom {
		row(p, "custom")
	}
	for _, p := range builtin {
		row(p, "built-in")
	}
	tw.Flush()
}
