package main

import (
	"fmt"

	"github.com/cuemby/ingestflow/pkg/controlplane"
	"github.com/cuemby/ingestflow/pkg/ingest"
	"github.com/cuemby/ingestflow/pkg/resource"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Upload a local file and enqueue it for ingestion",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringP("file", "f", "", "Path to the local file to ingest (required)")
	ingestCmd.Flags().String("db", "", "Target database name (required)")
	ingestCmd.Flags().String("table", "", "Target table name (required)")
	ingestCmd.Flags().String("format", "csv", "Ingestion data format")
	ingestCmd.Flags().String("mapping-ref", "", "Name of a pre-configured ingestion mapping")
	ingestCmd.Flags().String("report-level", string(ingest.ReportLevelFailuresOnly), "Report level: None, FailuresOnly, FailuresAndSuccesses")
	ingestCmd.Flags().String("report-method", string(ingest.ReportMethodQueue), "Report method: Queue, Table")
	ingestCmd.MarkFlagRequired("file")
	ingestCmd.MarkFlagRequired("db")
	ingestCmd.MarkFlagRequired("table")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	file, _ := cmd.Flags().GetString("file")
	db, _ := cmd.Flags().GetString("db")
	table, _ := cmd.Flags().GetString("table")
	format, _ := cmd.Flags().GetString("format")
	mappingRef, _ := cmd.Flags().GetString("mapping-ref")
	reportLevel, _ := cmd.Flags().GetString("report-level")
	reportMethod, _ := cmd.Flags().GetString("report-method")

	client := controlplane.NewClient(cfg.ControlPlaneEndpoint, cfg.UploadTimeout())
	mgr := resource.NewManager(client, resource.Config{
		DefaultRefreshInterval: cfg.DefaultRefreshInterval(),
		FailureRefreshInterval: cfg.FailureRefreshInterval(),
		UploadTimeout:          cfg.UploadTimeout(),
		QueueRequestOptions:    cfg.ToStorageOptions(),
	})
	defer mgr.Close()

	ingestor := ingest.NewIngestor(mgr)

	result, err := ingestor.IngestFromFile(cmd.Context(), ingest.FileSource{Path: file}, ingest.IngestionProperties{
		DatabaseName: db,
		TableName:    table,
		Format:       format,
		Mapping:      mappingRef,
		ReportLevel:  ingest.ReportLevel(reportLevel),
		ReportMethod: ingest.ReportMethod(reportMethod),
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	status := result.IngestionStatus()
	fmt.Printf("queued ingestion %s -> %s.%s (source id %s)\n", status.IngestionSourcePath, status.Database, status.Table, status.IngestionSourceID)
	if tr, ok := result.(ingest.TableReportIngestionResult); ok {
		fmt.Printf("status table row: %s (partition/row key %s)\n", tr.TableConnectionString, tr.PartitionKey)
	}
	return nil
}
