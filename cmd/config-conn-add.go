package cmd

import (
	"github.com/spf13/cobra"
)

var configConnAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a connection",
	Long:  `Add a logical connection (database or S3 bucket) for use by commands.`,
}

func initConnAdd() {
	configConnCmd.AddCommand(configConnAddCmd)
}
