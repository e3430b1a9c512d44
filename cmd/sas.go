// Handles the "azb sas" command

package cmd

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/storagekit/azb/pkg/azb"
)

var sasCmdConfig struct {
	permissions string
	expiresIn   time.Duration
	protocol    string
}

var sasCmd = &cobra.Command{
	Use:   "sas [container] [key]",
	Short: "Generate a signed access URL",
	Long: `Prints a URL carrying a delegated-access (SAS) token for a blob, or
for the whole container when no key is given. The token grants only the
requested permissions and expires after the given duration.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		container := args[0]
		key := ""
		if len(args) == 2 {
			key = args[1]
		}

		url, err := azbManager.Provider.Blob.SignedURL(container, key, azb.SignOptions{
			Permissions: sasCmdConfig.permissions,
			Expiry:      time.Now().Add(sasCmdConfig.expiresIn),
			Protocol:    sasCmdConfig.protocol,
		})
		if err != nil {
			return errors.Wrap(err, "Failed to build signed URL")
		}
		fmt.Println(url)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sasCmd)

	sasCmd.Flags().StringVarP(&sasCmdConfig.permissions, "permissions", "p", "r", "permission letters (subset of racwdl)")
	sasCmd.Flags().DurationVarP(&sasCmdConfig.expiresIn, "expires-in", "e", 24*time.Hour, "how long the URL stays valid")
	sasCmd.Flags().StringVar(&sasCmdConfig.protocol, "protocol", "", "restrict the token to a protocol, e.g. https")
}
