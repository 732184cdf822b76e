package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Lists the known build targets",
	Long:  `Lists every board mnemonic pibuild accepts, built-in ones and those declared in the config file.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}

		table, err := loadTable(cfgPath)
		if err != nil {
			return err
		}

		maxNameLen := 0
		for _, name := range table.Names() {
			if len(name) > maxNameLen {
				maxNameLen = len(name)
			}
		}

		fmt.Println("Available targets:")
		lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", maxNameLen+3)
		for _, name := range table.Names() {
			fmt.Printf(lineFmt, name+":", table[name].Triple)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
