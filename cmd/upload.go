package cmd

import (
	"github.com/kirkwilson-git/samples/actions"
	"github.com/spf13/cobra"
)

var uploadCfg = actions.UploadConfig{
	LogLevel: "info",
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload files from a directory to an S3 bucket",
	Long: `Upload all files matching a glob pattern in the source directory to the S3
bucket held by the named connection. Each file is retried on transient failures
before the run is abandoned. To validate the upload afterwards, install the
AWS CLI and run:

  aws s3 ls s3://<bucket>/<target-prefix>/ --recursive | wc -l`,
	RunE: func(cmd *cobra.Command, args []string) error {
		uploadCfg.Connections = getConnectionLoader()
		uploadCfg.StackDumpOnPanic = stackDumpOnPanic
		cmd.SilenceUsage = true
		return actions.RunUpload(&uploadCfg)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().SortFlags = false
	switches.addFlag(uploadCmd, &uploadCfg.ConnectionName, "connection-name", "", true, "")
	switches.addFlag(uploadCmd, &uploadCfg.SourceDir, "source-dir", "", true, "")
	switches.addFlag(uploadCmd, &uploadCfg.Pattern, "pattern", "*", false, "")
	switches.addFlag(uploadCmd, &uploadCfg.TargetPrefix, "target-prefix", "", false, "")
	switches.addFlag(uploadCmd, &uploadCfg.LogLevel, "log-level", "info", false, "")
}
