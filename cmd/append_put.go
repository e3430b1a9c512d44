// Handles the "azb append put" command

package cmd

import (
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var appendPutCmd = &cobra.Command{
	Use:   "put [container] [key] [file]",
	Short: "Append a chunk to an existing append blob",
	Long: `Appends the contents of a file (or stdin when no file is given) to
the end of an append blob. Each invocation is one append call.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var chunk []byte
		var err error
		if len(args) == 3 {
			chunk, err = ioutil.ReadFile(args[2])
			if err != nil {
				return errors.Wrap(err, "Failed to read "+args[2])
			}
		} else {
			chunk, err = ioutil.ReadAll(os.Stdin)
			if err != nil {
				return errors.Wrap(err, "Failed to read stdin")
			}
		}

		if err := azbManager.Provider.Blob.AppendBlock(args[0], args[1], chunk); err != nil {
			return errors.Wrap(err, "Append failed")
		}
		azbManager.Logger.Infof("Appended %d bytes to %s/%s", len(chunk), args[0], args[1])
		return nil
	},
}

func init() {
	appendCmd.AddCommand(appendPutCmd)
}
