package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// importVMsCmd loads an Azure VM export into the azure_vms table.
var importVMsCmd = &cobra.Command{
	Use:   "import-vms <file>",
	Short: "Import an Azure VM inventory export into the database",
	Long: `Import an Azure VM inventory CSV. The stored VMs are replaced unless
--append is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appendVMs, _ := cmd.Flags().GetBool("append")
		output, _ := cmd.Flags().GetString("output")
		if output != "json" && output != "yaml" {
			return fmt.Errorf("unknown output format %q (want json or yaml)", output)
		}

		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		_, svc, closeDB, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		res, err := svc.ImportAzureVMs(ctx, content, !appendVMs)
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), res, output)
	},
}

func init() {
	importVMsCmd.Flags().Bool("append", false, "Keep the stored VMs and add the export's rows")
	importVMsCmd.Flags().StringP("output", "o", "json", "Output format: json or yaml")
}
