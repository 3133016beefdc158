package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vare7/cloud-db-inventory/internal/config"
	"github.com/vare7/cloud-db-inventory/internal/core"
	"github.com/vare7/cloud-db-inventory/internal/database"
	"github.com/vare7/cloud-db-inventory/internal/inventory"
	"github.com/vare7/cloud-db-inventory/internal/s3source"
)

// importCmd imports a local file or an S3 object into the inventory database.
var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a provider CSV export into the database",
	Long: `Import an AWS or Azure CSV export, read from a local file or from S3 with
--s3 bucket/key. --purge deletes the provider's records first; --sync deletes
the provider's records that are missing from the export.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		providerFlag, _ := cmd.Flags().GetString("provider")
		s3Path, _ := cmd.Flags().GetString("s3")
		purge, _ := cmd.Flags().GetBool("purge")
		syncDeletes, _ := cmd.Flags().GetBool("sync")
		output, _ := cmd.Flags().GetString("output")

		if (len(args) == 1) == (s3Path != "") {
			return fmt.Errorf("give either a file or --s3 bucket/key")
		}
		if purge && s3Path != "" {
			return fmt.Errorf("--purge is not supported with --s3; use --sync")
		}
		provider, err := inventory.ParseProvider(providerFlag)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		cfg, svc, closeDB, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		var res *core.ImportResult
		if s3Path != "" {
			bucket, key, ok := strings.Cut(s3Path, "/")
			if !ok || bucket == "" || key == "" {
				return fmt.Errorf("--s3 wants bucket/key, got %q", s3Path)
			}
			awsCfg, err := s3source.LoadAWSConfig(ctx)
			if err != nil {
				return err
			}
			fetcher := s3source.New(awsCfg, cfg.Sync.Endpoint, cfg.Import.MaxFileSize)
			res, err = svc.ImportObject(ctx, fetcher, bucket, key, provider, syncDeletes)
			if err != nil {
				return err
			}
		} else {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err = svc.ImportCSV(ctx, core.ImportRequest{
				Provider: string(provider),
				FileName: filepath.Base(args[0]),
				Source:   "cli",
				Content:  content,
				Purge:    purge,
				Sync:     syncDeletes,
			})
			if err != nil {
				return err
			}
		}
		return writeReport(cmd.OutOrStdout(), res, output)
	},
}

// openService connects to the configured database and builds the service.
func openService(ctx context.Context) (*config.Config, *core.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
	}
	svc, err := core.NewService(database.NewStore(pool), cfg)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	return cfg, svc, pool.Close, nil
}

func init() {
	importCmd.Flags().StringP("provider", "p", "AWS", "Export provider: AWS or Azure")
	importCmd.Flags().String("s3", "", "Read the export from S3 as bucket/key")
	importCmd.Flags().Bool("purge", false, "Delete the provider's records before importing")
	importCmd.Flags().Bool("sync", false, "Delete the provider's records missing from the export")
	importCmd.Flags().StringP("output", "o", "json", "Output format: json or yaml")
}
