package cmd

import (
	"github.com/kirkwilson-git/samples/actions"
	"github.com/kirkwilson-git/samples/constants"
	"github.com/spf13/cobra"
)

var reconCfg = actions.ReconConfig{
	LogLevel: "info",
}

var reconCmd = &cobra.Command{
	Use:   "recon",
	Short: "Validate record counts between SQL Server sources and Snowflake",
	Long: `Compare per-table record counts between each enabled SQL Server source and the
Snowflake database it replicates into. Sources are read from the audit table
RECORD_COUNT_SOURCES where AUDIT_ENABLED_FLAG = 'Y'. A CSV report is written
per source and the active result set in RECORD_COUNT_RESULTS is replaced.
Tables with zero records in the source are skipped; tables missing on the
Snowflake side are reported with a count of -1.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reconCfg.Connections = getConnectionLoader()
		reconCfg.StackDumpOnPanic = stackDumpOnPanic
		cmd.SilenceUsage = true
		return actions.RunRecon(&reconCfg)
	},
}

func init() {
	rootCmd.AddCommand(reconCmd)
	reconCmd.Flags().SortFlags = false
	switches.addFlag(reconCmd, &reconCfg.SnowflakeConnectionName, "snowflake-connection", "", true, "")
	switches.addFlag(reconCmd, &reconCfg.SqlServerConnectionName, "sqlserver-connection", "", true, "")
	switches.addFlag(reconCmd, &reconCfg.Warehouse, "warehouse", "", true, "")
	switches.addFlag(reconCmd, &reconCfg.AuditDatabase, "audit-database", constants.DefaultAuditDatabase, false, "")
	switches.addFlag(reconCmd, &reconCfg.AuditSchema, "audit-schema", constants.DefaultAuditSchema, false, "")
	switches.addFlag(reconCmd, &reconCfg.OutputDir, "output-dir", ".", false, "")
	switches.addFlag(reconCmd, &reconCfg.LogLevel, "log-level", "info", false, "")
}
