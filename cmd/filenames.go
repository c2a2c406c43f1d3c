package cmd

import (
	"github.com/kirkwilson-git/samples/actions"
	"github.com/spf13/cobra"
)

var filenamesCfg = actions.FilenamesConfig{
	LogLevel: "info",
}

var filenamesCmd = &cobra.Command{
	Use:   "filenames",
	Short: "Load the file names in a directory into a Snowflake table",
	Long: `Write the names of all files in the source directory to <system-name>_FILES.txt
and load them into the Snowflake table <system-name>_FILE_LIST. This makes
document collections provided by SaaS vendors query-able in Snowflake so they
can be joined to their associated tabular data. Avoid running this against a
network drive when the number of files is large.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filenamesCfg.Connections = getConnectionLoader()
		filenamesCfg.StackDumpOnPanic = stackDumpOnPanic
		cmd.SilenceUsage = true
		return actions.RunFilenames(&filenamesCfg)
	},
}

func init() {
	rootCmd.AddCommand(filenamesCmd)
	filenamesCmd.Flags().SortFlags = false
	switches.addFlag(filenamesCmd, &filenamesCfg.ConnectionName, "connection-name", "", true, "")
	switches.addFlag(filenamesCmd, &filenamesCfg.SourceDir, "source-dir", "", true, "")
	switches.addFlag(filenamesCmd, &filenamesCfg.SystemName, "system-name", "", true, "")
	switches.addFlag(filenamesCmd, &filenamesCfg.Database, "database-name", "", true, "")
	switches.addFlag(filenamesCmd, &filenamesCfg.Schema, "schema", "", true, "")
	switches.addFlag(filenamesCmd, &filenamesCfg.Warehouse, "warehouse", "", true, "")
	switches.addFlag(filenamesCmd, &filenamesCfg.OutputDir, "output-dir", ".", false, "")
	switches.addFlag(filenamesCmd, &filenamesCfg.LogLevel, "log-level", "info", false, "")
}
