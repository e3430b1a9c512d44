// Handles the "azb blob rm" command

package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var blobRmCmdConfig struct {
	prefix string
}

var blobRmCmd = &cobra.Command{
	Use:   "rm [container] [key]",
	Short: "Delete a blob, or every blob under a prefix",
	Long: `Deletes one blob by key, or with --prefix deletes every matching blob,
paging through the listing until it is exhausted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		container := args[0]

		if blobRmCmdConfig.prefix != "" {
			if len(args) == 2 {
				return errors.New("Give either a key or --prefix, not both")
			}
			n, err := azbManager.Provider.Blob.DeletePrefix(container, blobRmCmdConfig.prefix)
			if err != nil {
				return errors.Wrap(err, "Prefix deletion failed")
			}
			azbManager.Logger.Infof("Deleted %d blobs under prefix %q", n, blobRmCmdConfig.prefix)
			return nil
		}

		if len(args) != 2 {
			return errors.New("A blob key is required unless --prefix is given")
		}
		if err := azbManager.Provider.Blob.Delete(container, args[1]); err != nil {
			return errors.Wrap(err, "Deletion failed")
		}
		azbManager.Logger.Infof("Deleted %s/%s", container, args[1])
		return nil
	},
}

func init() {
	blobCmd.AddCommand(blobRmCmd)

	blobRmCmd.Flags().StringVarP(&blobRmCmdConfig.prefix, "prefix", "p", "", "delete every blob whose key starts with this prefix")
}
