// Handles the "azb blob put" command

package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/storagekit/azb/pkg/azb"
)

var blobPutCmdConfig struct {
	contentType string
	metadata    string
	blockSize   int64
}

var blobPutCmd = &cobra.Command{
	Use:   "put [container] [key] [file]",
	Short: "Upload a file as a blob",
	Long: `Uploads a local file. Small files go up in a single request; files
above the block-size threshold are staged as blocks and committed atomically.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, key, path := args[0], args[1], args[2]

		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "Failed to open "+path)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return errors.Wrap(err, "Failed to stat "+path)
		}

		opts := &azb.PutOptions{
			ContentType: blobPutCmdConfig.contentType,
			Metadata:    parseKeyValue(blobPutCmdConfig.metadata),
			BlockSize:   blobPutCmdConfig.blockSize,
		}
		if err := azbManager.Provider.Blob.Put(container, key, f, info.Size(), opts); err != nil {
			return errors.Wrap(err, "Upload failed")
		}
		azbManager.Logger.Infof("Uploaded %s (%d bytes) to %s/%s", path, info.Size(), container, key)
		return nil
	},
}

func init() {
	blobCmd.AddCommand(blobPutCmd)

	blobPutCmd.Flags().StringVarP(&blobPutCmdConfig.contentType, "content-type", "t", "", "content type to store with the blob")
	blobPutCmd.Flags().StringVarP(&blobPutCmdConfig.metadata, "metadata", "m", "", "blob metadata: key1=value1,key2=value2")
	blobPutCmd.Flags().Int64Var(&blobPutCmdConfig.blockSize, "block-size", 0, "override the configured block size in bytes")
}
