package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/seaplane/core/cluster"
	"github.com/kilianp07/seaplane/core/planning"
	"github.com/kilianp07/seaplane/pkg/export"
)

var clustersFormat string

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Print the map clusters of seaplanes and ports",
	RunE:  runClusters,
}

func init() {
	clustersCmd.Flags().StringVarP(&clustersFormat, "format", "f", "json", "output format: json or csv")
	rootCmd.AddCommand(clustersCmd)
}

func runClusters(cmd *cobra.Command, args []string) error {
	if clustersFormat != "json" && clustersFormat != "csv" {
		return fmt.Errorf("unsupported format %q", clustersFormat)
	}
	ctx, stop := signalContext(cmd)
	defer stop()

	p, err := startPlanner(ctx, planning.CategoryVehicles, planning.CategoryPorts)
	if err != nil {
		return err
	}
	var clusters []cluster.Cluster
	if err := p.Do(ctx, func(s *planning.Session) { clusters = s.Index().Clusters() }); err != nil {
		return err
	}
	if clustersFormat == "csv" {
		return export.WriteClustersCSV(cmd.OutOrStdout(), clusters)
	}
	return export.WriteClustersJSON(cmd.OutOrStdout(), clusters)
}
