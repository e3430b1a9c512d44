// Handles the "azb blob get" command

package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/storagekit/azb/pkg/azb"
)

var blobGetCmdConfig struct {
	output string
	offset int64
	length int64
}

var blobGetCmd = &cobra.Command{
	Use:   "get [container] [key]",
	Short: "Download a blob",
	Long: `Downloads a blob to a file or stdout. Use --offset/--length to fetch
only a byte range.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, key := args[0], args[1]

		var opts *azb.GetOptions
		if blobGetCmdConfig.offset > 0 || blobGetCmdConfig.length > 0 {
			opts = &azb.GetOptions{
				Offset: blobGetCmdConfig.offset,
				Length: blobGetCmdConfig.length,
			}
		}

		body, props, err := azbManager.Provider.Blob.Get(container, key, opts)
		if err != nil {
			return errors.Wrap(err, "Download failed")
		}
		defer body.Close()

		out := os.Stdout
		if blobGetCmdConfig.output != "" {
			out, err = os.Create(blobGetCmdConfig.output)
			if err != nil {
				return errors.Wrap(err, "Failed to create output file")
			}
			defer out.Close()
		}

		n, err := io.Copy(out, body)
		if err != nil {
			return errors.Wrap(err, "Failed while writing blob content")
		}
		azbManager.Logger.Infof("Downloaded %d bytes (%s)", n, props.ContentType)
		return nil
	},
}

func init() {
	blobCmd.AddCommand(blobGetCmd)

	blobGetCmd.Flags().StringVarP(&blobGetCmdConfig.output, "output", "o", "", "output file (default stdout)")
	blobGetCmd.Flags().Int64Var(&blobGetCmdConfig.offset, "offset", 0, "byte offset to start reading from")
	blobGetCmd.Flags().Int64Var(&blobGetCmdConfig.length, "length", 0, "number of bytes to read (0 means to the end)")
}
