package cmd

import (
	"github.com/kirkwilson-git/samples/actions"
	"github.com/kirkwilson-git/samples/helper"
	"github.com/spf13/cobra"
)

var zipCfg = actions.ZipConfig{
	LogLevel: "info",
}

var zipSkipCsv string

var zipCmd = &cobra.Command{
	Use:   "zip",
	Short: "Archive each sub-folder of a directory into its own zip file",
	Long: `Create one zip file per sub-folder of the source directory, named
<zip-prefix>_<folder>.zip with spaces removed. Use this to compress vendor
document collections folder by folder before archiving them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		zipCfg.Skip = helper.CsvToStringSliceTrimSpaces(zipSkipCsv)
		zipCfg.StackDumpOnPanic = stackDumpOnPanic
		cmd.SilenceUsage = true
		return actions.RunZip(&zipCfg)
	},
}

func init() {
	rootCmd.AddCommand(zipCmd)
	zipCmd.Flags().SortFlags = false
	switches.addFlag(zipCmd, &zipCfg.SourceDir, "source-dir", "", true, "")
	switches.addFlag(zipCmd, &zipCfg.TargetDir, "target-dir", "", true, "")
	switches.addFlag(zipCmd, &zipCfg.Prefix, "zip-prefix", "", true, "")
	switches.addFlag(zipCmd, &zipSkipCsv, "skip", "", false, "")
	switches.addFlag(zipCmd, &zipCfg.LogLevel, "log-level", "info", false, "")
}
