package travelsir_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/travelsir"
	"github.com/aretw0/travelsir/pkg/domain"
)

// ExampleSimulator_Run runs a short outbreak in which nobody is infected yet,
// so only travellers move between the groups.
func ExampleSimulator_Run() {
	sim := travelsir.New(travelsir.WithAnomalyCheck(0))

	res, err := sim.Run(context.Background(), domain.Params{
		Na: 100, Nb: 50,
		Mab: 0.1, Mba: 0.2,
		Dab: 1, Dba: 1,
		Weeks: 2,
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, s := range res.Steps {
		fmt.Printf("week %d: A=%g B=%g AinB=%g BinA=%g total=%g\n",
			s.Step, s.A.S, s.B.S, s.AInB.S, s.BInA.S, s.GrandTotal())
	}
	fmt.Println("anomalies:", len(res.Anomalies))

	// Output:
	// week 0: A=100 B=50 AinB=0 BinA=0 total=150
	// week 1: A=90 B=40 AinB=10 BinA=10 total=150
	// week 2: A=91 B=42 AinB=9 BinA=8 total=150
	// anomalies: 0
}
