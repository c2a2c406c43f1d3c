package cmd

import (
	"errors"

	"github.com/kirkwilson-git/samples/actions"
	"github.com/kirkwilson-git/samples/constants"
	"github.com/spf13/cobra"
)

var loadCfg = actions.FileLoadConfig{
	LogLevel: "info",
}

var loadCmd = &cobra.Command{
	Use:   "load <source-file>",
	Short: "Load a delimited file into a typed Snowflake table",
	Long: `Load a delimited file into Snowflake in two stages. The file is first loaded
verbatim into an all-VARCHAR staging table named STAGE_<table-name>. Each column
is then profiled in the database to infer its type (NUMBER, TIMESTAMP or
VARCHAR) and the destination table is created and populated with converted
values. Columns that are entirely null are dropped. Malformed rows are recorded
in the error table and do not stop the load. Every statement executed is
written to logs/<TABLE>.sql so the run can be replayed by hand.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("please supply the source file to load")
		}
		loadCfg.SourceFile = args[0]
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		loadCfg.Connections = getConnectionLoader()
		loadCfg.StackDumpOnPanic = stackDumpOnPanic
		cmd.SilenceUsage = true
		return actions.RunFileLoad(&loadCfg)
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().SortFlags = false
	switches.addFlag(loadCmd, &loadCfg.ConnectionName, "connection-name", "", true, "")
	switches.addFlag(loadCmd, &loadCfg.TableName, "table-name", "", true, "")
	switches.addFlag(loadCmd, &loadCfg.Database, "database-name", "", true, "")
	switches.addFlag(loadCmd, &loadCfg.Schema, "schema", "", true, "")
	switches.addFlag(loadCmd, &loadCfg.Warehouse, "warehouse", "", true, "")
	switches.addFlag(loadCmd, &loadCfg.FileFormat, "file-format", constants.FileFormatCsv, false, "")
	switches.addFlag(loadCmd, &loadCfg.Encoding, "encoding", constants.EncodingUtf8, false, "")
	switches.addFlag(loadCmd, &loadCfg.ErrorTable, "error-table", constants.DefaultErrorTable, false, "")
	switches.addFlag(loadCmd, &loadCfg.BatchSize, "batch-size", "500", false, "")
	switches.addFlag(loadCmd, &loadCfg.LogDir, "log-dir", ".", false, "")
	switches.addFlag(loadCmd, &loadCfg.LogLevel, "log-level", "info", false, "")
}
