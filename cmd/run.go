package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	lbm "github.com/UnwiseGiraffeX86/Air-Tunnel/lbm-solver"
)

var (
	steps       int // Total steps for a headless run
	reportEvery int // Progress report interval in steps
	probeX      int // Node dump coordinate, -1 disables
	probeY      int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation headless and report forces",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}
		solver, err := lbm.New(cfg)
		if err != nil {
			return err
		}

		for n := 1; n <= steps; n++ {
			solver.Step()

			if reportEvery > 0 && n%reportEvery == 0 {
				logrus.Infof("step %d/%d: drag=%.6f lift=%.6f", n, steps, solver.DragForce(), solver.LiftForce())
				if solver.Unstable() {
					logrus.Warnf("instability detected at step %d, stopping", n)
					break
				}
			}
		}

		logrus.Infof("finished at step %d: drag=%.6f lift=%.6f unstable=%v",
			solver.StepCount(), solver.DragForce(), solver.LiftForce(), solver.Unstable())

		if probeX >= 0 && probeY >= 0 {
			logrus.Info("\n" + solver.NodeInfo(probeX, probeY).String())
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&steps, "steps", 1000, "number of simulation steps")
	runCmd.Flags().IntVar(&reportEvery, "report-every", 100, "progress report interval (0 disables)")
	runCmd.Flags().IntVar(&probeX, "probe-x", -1, "dump this node after the run")
	runCmd.Flags().IntVar(&probeY, "probe-y", -1, "dump this node after the run")
	rootCmd.AddCommand(runCmd)
}
