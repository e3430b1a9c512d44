// Handles the "azb blob ls" command

package cmd

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/storagekit/azb/pkg/azb"
)

var blobLsCmdConfig struct {
	prefix     string
	maxResults int
	all        bool
	long       bool
}

var blobLsCmd = &cobra.Command{
	Use:   "ls [container]",
	Short: "List blobs in a container",
	Long: `Lists one page of a container. With --all, continuation markers are
followed until the listing is exhausted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container := args[0]

		marker := ""
		for {
			page, err := azbManager.Provider.Blob.List(container, &azb.ListOptions{
				Prefix:     blobLsCmdConfig.prefix,
				Marker:     marker,
				MaxResults: blobLsCmdConfig.maxResults,
			})
			if err != nil {
				return errors.Wrap(err, "Listing failed")
			}
			for _, item := range page.Items {
				if blobLsCmdConfig.long {
					fmt.Printf("%10s  %s  %s\n",
						humanize.Bytes(uint64(item.Properties.ContentLength)),
						item.Properties.LastModified.Format("2006-01-02 15:04:05"),
						item.Key)
				} else {
					fmt.Println(item.Key)
				}
			}
			if !blobLsCmdConfig.all || page.NextMarker == "" {
				if page.NextMarker != "" {
					azbManager.Logger.Info("More results available; rerun with --all to fetch everything")
				}
				return nil
			}
			marker = page.NextMarker
		}
	},
}

func init() {
	blobCmd.AddCommand(blobLsCmd)

	blobLsCmd.Flags().StringVarP(&blobLsCmdConfig.prefix, "prefix", "p", "", "only list keys with this prefix")
	blobLsCmd.Flags().IntVar(&blobLsCmdConfig.maxResults, "max", 0, "maximum results per page")
	blobLsCmd.Flags().BoolVarP(&blobLsCmdConfig.all, "all", "a", false, "follow continuation markers until the listing is exhausted")
	blobLsCmd.Flags().BoolVarP(&blobLsCmdConfig.long, "long", "l", false, "show sizes and modification times")
}
