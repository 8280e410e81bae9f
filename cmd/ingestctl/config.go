package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect ingestctl configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration, including applied defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		fmt.Printf("controlPlaneEndpoint: %s\n", cfg.ControlPlaneEndpoint)
		fmt.Printf("database: %s\n", cfg.Database)
		fmt.Printf("defaultRefreshInterval: %s\n", cfg.DefaultRefreshInterval())
		fmt.Printf("failureRefreshInterval: %s\n", cfg.FailureRefreshInterval())
		fmt.Printf("uploadTimeout: %s\n", cfg.UploadTimeout())
		fmt.Printf("log.level: %s\n", cfg.Log.Level)
		fmt.Printf("log.jsonOutput: %v\n", cfg.Log.JSONOutput)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
