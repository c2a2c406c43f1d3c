package cmd

import (
	"github.com/kirkwilson-git/samples/actions"
	"github.com/kirkwilson-git/samples/helper"
	"github.com/spf13/cobra"
)

var backupCfg = actions.BackupConfig{
	LogLevel: "info",
}

var backupDatabasesCsv string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Clone Snowflake databases as date-stamped backups",
	Long: `Create a zero-copy clone of each database named zBACKUP_<database>_<MM_DD_YYYY>
and drop the clone created retention-days ago. Clones act as complete backups
of all objects and data and are quick to create. Optionally write the full text
DDL of each database to a file as an extra layer of redundancy; DDL backups are
never deleted automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backupCfg.Connections = getConnectionLoader()
		backupCfg.Databases = helper.CsvToStringSliceTrimSpaces(backupDatabasesCsv)
		backupCfg.StackDumpOnPanic = stackDumpOnPanic
		cmd.SilenceUsage = true
		return actions.RunBackup(&backupCfg)
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().SortFlags = false
	switches.addFlag(backupCmd, &backupCfg.ConnectionName, "connection-name", "", true, "")
	switches.addFlag(backupCmd, &backupDatabasesCsv, "databases", "", true, "")
	switches.addFlag(backupCmd, &backupCfg.RetentionDays, "retention-days", "15", false, "")
	switches.addFlag(backupCmd, &backupCfg.DdlBackupDir, "ddl-backup-dir", "", false, "")
	switches.addFlag(backupCmd, &backupCfg.LogLevel, "log-level", "info", false, "")
}
