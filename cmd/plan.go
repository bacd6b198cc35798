package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/seaplane/core/planning"
	"github.com/kilianp07/seaplane/pkg/export"
)

var (
	planOrders  []string
	planVehicle string
	planSubmit  bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Validate a delivery against the backend data, optionally creating it",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringSliceVar(&planOrders, "order", nil, "pending order id (repeatable)")
	planCmd.Flags().StringVar(&planVehicle, "vehicle", "", "seaplane name")
	planCmd.Flags().BoolVar(&planSubmit, "submit", false, "create the delivery when validation passes")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	p, err := startPlanner(ctx, planning.CategoryVehicles, planning.CategoryOrders)
	if err != nil {
		return err
	}
	for _, id := range planOrders {
		if _, err := p.Toggle(ctx, id); err != nil {
			return fmt.Errorf("select order %s: %w", id, err)
		}
	}
	var snap planning.Snapshot
	if planVehicle != "" {
		snap, err = p.ChooseVehicle(ctx, planVehicle)
		if err != nil {
			return fmt.Errorf("choose vehicle %s: %w", planVehicle, err)
		}
	} else if snap, err = p.Snapshot(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !planSubmit {
		return export.WriteSnapshotJSON(out, snap)
	}
	if !snap.Validation.OK() {
		return fmt.Errorf("%s", snap.Validation.Message())
	}
	res, err := p.Submit(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, res.Summary())
	return err
}
