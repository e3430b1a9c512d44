// Handles the "azb append create" command

package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var appendCreateCmdConfig struct {
	metadata string
}

var appendCreateCmd = &cobra.Command{
	Use:   "create [container] [key]",
	Short: "Create an empty append blob",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta := parseKeyValue(appendCreateCmdConfig.metadata)
		if err := azbManager.Provider.Blob.CreateAppendBlob(args[0], args[1], meta); err != nil {
			return errors.Wrap(err, "Create failed")
		}
		azbManager.Logger.Infof("Created append blob %s/%s", args[0], args[1])
		return nil
	},
}

func init() {
	appendCmd.AddCommand(appendCreateCmd)

	appendCreateCmd.Flags().StringVarP(&appendCreateCmdConfig.metadata, "metadata", "m", "", "blob metadata: key1=value1,key2=value2")
}
