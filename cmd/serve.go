package cmd

import (
	"github.com/spf13/cobra"

	"github.com/UnwiseGiraffeX86/Air-Tunnel/http"
	lbm "github.com/UnwiseGiraffeX86/Air-Tunnel/lbm-solver"
)

var (
	serveAddr string // Listen address for the viewer
	serveRoot string // Static files of the browser viewer
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser viewer with a live websocket feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}
		solver, err := lbm.New(cfg)
		if err != nil {
			return err
		}
		return http.InitServer(solver, serveAddr, serveRoot)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:5000", "listen address")
	serveCmd.Flags().StringVar(&serveRoot, "root", "web", "static file root")
	rootCmd.AddCommand(serveCmd)
}
