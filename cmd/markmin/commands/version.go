package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/markmin/internal/output"
	"github.com/jmylchreest/markmin/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		if formatFlag == "" || formatFlag == string(output.FormatText) {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Full())
			return err
		}

		format, err := output.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		w, err := output.NewWriter(cmd.OutOrStdout(), format)
		if err != nil {
			return err
		}
		if err := w.Write(version.Get()); err != nil {
			return err
		}
		return w.Close()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version.String()

	versionCmd.Flags().StringP("format", "f", "text", "output format: text, json, yaml")
}
