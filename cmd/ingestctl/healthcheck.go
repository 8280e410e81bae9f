package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cuemby/ingestflow/pkg/controlplane"
	"github.com/cuemby/ingestflow/pkg/health"
	"github.com/spf13/cobra"
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Probe a control plane's reachability and service type",
	RunE:  runHealthcheck,
}

func init() {
	healthcheckCmd.Flags().String("endpoint", "", "Control plane endpoint to probe (required)")
	healthcheckCmd.MarkFlagRequired("endpoint")
}

func runHealthcheck(cmd *cobra.Command, args []string) error {
	endpoint, _ := cmd.Flags().GetString("endpoint")

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	reachable := health.NewHTTPChecker(endpoint).WithStatusRange(200, 499).Check(ctx)
	fmt.Printf("%s: %s (%s)\n", endpoint, reachable.Message, reachable.Duration)
	if !reachable.Healthy {
		return fmt.Errorf("endpoint unreachable: %s", reachable.Message)
	}

	client := controlplane.NewClient(endpoint, 30*time.Second)
	serviceType, err := client.ShowVersion(ctx)
	if err != nil {
		return fmt.Errorf("service type probe failed: %w", err)
	}

	fmt.Printf("%s: serviceType=%s\n", endpoint, serviceType)
	return nil
}
