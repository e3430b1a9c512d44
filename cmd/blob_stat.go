// Handles the "azb blob stat" command

package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var blobStatCmd = &cobra.Command{
	Use:   "stat [container] [key]",
	Short: "Show blob properties",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		props, err := azbManager.Provider.Blob.Stat(args[0], args[1])
		if err != nil {
			return errors.Wrap(err, "Stat failed")
		}

		fmt.Printf("Content-Type:   %s\n", props.ContentType)
		fmt.Printf("Content-Length: %d\n", props.ContentLength)
		fmt.Printf("ETag:           %s\n", props.ETag)
		fmt.Printf("Last-Modified:  %s\n", props.LastModified)
		for k, v := range props.Metadata {
			fmt.Printf("Meta %s: %s\n", k, v)
		}
		return nil
	},
}

func init() {
	blobCmd.AddCommand(blobStatCmd)
}
