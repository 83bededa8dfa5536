package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/dist"
	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/model"
	"github.com/doserjef/Doser-etal-2021-integrated-ARU-point-count/rand"
)

var (
	simSites    int
	simAcoustic int
	simCounts   int
)

func init() {
	simulateCmd.Flags().IntVar(&simSites, "sites", 50, "number of sites")
	simulateCmd.Flags().IntVar(&simAcoustic, "acoustic", 4, "acoustic visits per site")
	simulateCmd.Flags().IntVar(&simCounts, "counts", 3, "point-count visits per site")
}

// benchmarkData draws a dataset at the fixed benchmark truth used by run
// and simulate.
func benchmarkData(variant model.Variant, seed int64) (*model.Data, *model.Params, error) {
	truth := &model.Params{
		Beta0:  0.5,
		Beta1:  0.2,
		Alpha0: dist.Logit(0.3),
		Alpha1: 0.1,
		Alpha2: 0.3,
		Gamma0: 1.0,
		Gamma1: -0.2,
		Phi0:   dist.Logit(0.5),
		Phi1:   0.3,
		Omega:  0.5,
		APhi:   2,
		TauDay: 4,
	}
	cfg := model.SimConfig{
		NSites:         simSites,
		AcousticVisits: simAcoustic,
		CountVisits:    simCounts,
		NDays:          simAcoustic,
		Variant:        variant,
		Inspect:        5,
		Truth:          truth,
	}
	return model.Simulate(cfg, rand.NewGenerator(seed))
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Draw a dataset from the generative model and summarize it",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, truth, err := benchmarkData(model.VariantCovariate, sp.seed)
		if err != nil {
			return err
		}

		nTot, yTot, vTot, cTot := 0, 0, 0, 0
		for _, n := range truth.N {
			nTot += n
		}
		for t := range d.Y {
			yTot += d.Y[t]
			vTot += d.V[t]
		}
		for _, c := range d.C {
			cTot += c
		}

		sp.out.Printf("Sites:               %d\n", d.NSites)
		sp.out.Printf("True abundance:      total=%d mean=%.2f\n", nTot, float64(nTot)/float64(d.NSites))
		sp.out.Printf("Acoustic visits:     %d (detections=%d, vocalizations=%d)\n", d.TotalAcoustic(), yTot, vTot)
		sp.out.Printf("Count visits:        %d (birds counted=%d)\n", d.TotalCount(), cTot)
		sp.out.Printf("Validation records:  %d\n", len(d.Val))

		return nil
	},
}

func colN(i int) string {
	return fmt.Sprintf("N[%d]", i)
}

func sqrt(x float64) float64 {
	return math.Sqrt(x)
}
