// Handles the "azb blob" command. This command exists solely to contain
// blob-specific subcommands (e.g. get, put, ls, etc..)

package cmd

import (
	"github.com/spf13/cobra"
)

// blobCmd represents the blob command
var blobCmd = &cobra.Command{
	Use:   "blob",
	Short: "Blob interaction",
	Long:  `Commands for reading, writing and listing blobs on the configured provider.`,
}

func init() {
	rootCmd.AddCommand(blobCmd)
}
