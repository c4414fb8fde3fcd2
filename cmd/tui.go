package cmd

import (
	"github.com/spf13/cobra"

	lbm "github.com/UnwiseGiraffeX86/Air-Tunnel/lbm-solver"
	"github.com/UnwiseGiraffeX86/Air-Tunnel/terminal"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive terminal heatmap",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}
		solver, err := lbm.New(cfg)
		if err != nil {
			return err
		}
		return terminal.New(solver).Render()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
