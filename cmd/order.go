package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/seaplane/core/model"
	"github.com/kilianp07/seaplane/core/planning"
)

var orderReq model.OrderRequest

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place a new order for a client",
	RunE:  runOrder,
}

func init() {
	orderCmd.Flags().IntVar(&orderReq.ClientID, "client", 0, "client id")
	orderCmd.Flags().IntVar(&orderReq.WarehouseID, "warehouse", 0, "warehouse id")
	orderCmd.Flags().IntVar(&orderReq.CrateQuantity, "crates", 0, "number of crates")
	_ = orderCmd.MarkFlagRequired("client")
	_ = orderCmd.MarkFlagRequired("warehouse")
	_ = orderCmd.MarkFlagRequired("crates")
	rootCmd.AddCommand(orderCmd)
}

func runOrder(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	p, err := startPlanner(ctx, planning.CategoryClients)
	if err != nil {
		return err
	}
	res, err := p.CreateOrder(ctx, orderReq)
	if err != nil {
		return err
	}
	msg := res.Message
	if msg == "" {
		msg = "Order created"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d crates, %s)\n", msg, res.ID, res.CrateQuantity, res.Status)
	return err
}
