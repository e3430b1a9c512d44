// Handles the "azb append" command. Contains the append-blob subcommands.

package cmd

import (
	"github.com/spf13/cobra"
)

// appendCmd represents the append command
var appendCmd = &cobra.Command{
	Use:   "append",
	Short: "Append blob interaction",
	Long:  `Commands for creating append blobs and appending chunks to them.`,
}

func init() {
	rootCmd.AddCommand(appendCmd)
}
