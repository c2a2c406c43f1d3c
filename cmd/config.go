package cmd

import (
	"fmt"

	"github.com/kirkwilson-git/samples/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure connections",
	Long: fmt.Sprintf(`Configure connections for use by commands where:

- Connections are stored in file %q
`, config.Connections.FullPath),
}

func init() {
	rootCmd.AddCommand(configCmd)
}
