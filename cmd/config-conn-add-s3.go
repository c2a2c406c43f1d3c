package cmd

import (
	"fmt"

	"github.com/kirkwilson-git/samples/actions"
	"github.com/kirkwilson-git/samples/aws/s3"
	"github.com/kirkwilson-git/samples/config"
	"github.com/kirkwilson-git/samples/constants"
	"github.com/spf13/cobra"
)

var configConnS3Cfg = &actions.ConnectionConfig{}
var s3Dsn string
var s3Region string

var configConnAddS3Cmd = &cobra.Command{
	Use:   "s3",
	Short: "Add an AWS S3 connection",
	Long: fmt.Sprintf(`Add an AWS S3 bucket connection to the config store %q
by providing a DSN of the form:

s3://<bucket>[/<prefix>]

Set AWS environment variables for access keys.`,
		config.Connections.FullPath),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, err := s3.ParseDSN(s3Dsn, s3Region)
		if err != nil {
			return err
		}
		configConnS3Cfg.Type = constants.ConnectionTypeS3
		configConnS3Cfg.ConfigFile = getConnectionGetterSetter()
		configConnS3Cfg.ConnDetails = bucket
		cmd.SilenceUsage = true
		return actions.RunConnectionAdd(configConnS3Cfg)
	},
}

func init() {
	configConnAddCmd.AddCommand(configConnAddS3Cmd)
	configConnAddS3Cmd.Flags().SortFlags = false
	switches.addFlag(configConnAddS3Cmd, &configConnS3Cfg.LogicalName, "connection-name", "", true, "")
	switches.addFlag(configConnAddS3Cmd, &configConnS3Cfg.Force, "force-connection", "", false, "")
	switches.addFlag(configConnAddS3Cmd, &s3Dsn, "dsn", "", true, "")
	switches.addFlag(configConnAddS3Cmd, &s3Region, "s3-region", "", true, "")
}
