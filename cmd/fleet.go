package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/seaplane/core/fleet"
	"github.com/kilianp07/seaplane/core/model"
	"github.com/kilianp07/seaplane/core/planning"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Summarise the seaplane fleet",
	RunE:  runFleet,
}

func init() {
	rootCmd.AddCommand(fleetCmd)
}

func runFleet(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	p, err := startPlanner(ctx, planning.CategoryVehicles)
	if err != nil {
		return err
	}
	var vehicles []model.Vehicle
	if err := p.Do(ctx, func(s *planning.Session) { vehicles = s.Registries().Vehicles.List() }); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, v := range vehicles {
		if _, err := fmt.Fprintf(out, "%-16s %-12s %-20s %3d crates  fuel %5.1f%%\n",
			v.Name, v.Status.Label(), v.LocationLabel(), v.CrateCapacity, v.FuelPercent()); err != nil {
			return err
		}
	}
	sum := fleet.Summarize(vehicles)
	_, err = fmt.Fprintf(out, "\n%d seaplanes: %d docked, %d flying, %d in maintenance\n"+
		"docked capacity %d crates, mean capacity %.1f, mean fuel %.1f%%\n",
		sum.Vehicles, sum.Docked, sum.Flying, sum.Maintenance,
		sum.DockedCrateCapacity, sum.MeanCrateCapacity, sum.MeanFuelPercent)
	if err == nil && len(sum.LowFuel) > 0 {
		_, err = fmt.Fprintf(out, "low fuel: %s\n", strings.Join(sum.LowFuel, ", "))
	}
	return err
}
