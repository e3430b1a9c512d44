// Root of command-line argument parsing.
// This file was based off the standard cobra template, see
// https://github.com/spf13/cobra
package cmd

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/storagekit/azb/pkg/azbmgr"
)

var cfgFile string

var azbManager *azbmgr.Manager

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "azb",
	Short: "Blob storage toolkit",
	Long:  `A command-line client for cloud blob storage: uploads, downloads, listings and signed access URLs.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		mgrArgs := map[string]interface{}{}
		if cfgFile != "" {
			expanded, err := homedir.Expand(cfgFile)
			if err != nil {
				fmt.Printf("Bad config path: %v\n", err)
				os.Exit(1)
			}
			mgrArgs["config-file"] = expanded
		}

		var err error
		azbManager, err = azbmgr.NewManager(mgrArgs)
		if err != nil {
			fmt.Printf("Failed to initialize azb manager: %v\n", err)
			os.Exit(1)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		azbManager.Destroy()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by azb.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if azbManager == nil || azbManager.Logger == nil {
			fmt.Printf("%v\n", err)
		} else {
			azbManager.Logger.Error(err)
		}
		os.Exit(1)
	}
}

// parseKeyValue turns "k1=v1,k2=v2" into a map (used for metadata flags).
func parseKeyValue(s string) map[string]string {

	if s == "" {
		return nil
	}

	result := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		keyValue := strings.Split(pair, "=")
		if len(keyValue) == 2 {
			result[keyValue[0]] = keyValue[1]
		}
	}

	return result
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/azb.yaml)")
}
