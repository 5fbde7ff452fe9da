package oracle

import (
	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
)

// halves splits the S-boxes into two attack steps per round.
var halves = [][dca.SBoxCount]bool{
	{true, true, false, false},
	{false, false, true, true},
}

// Step is one round search of a planned attack.
type Step struct {
	Configuration *dca.RoundConfiguration
}

// Plan returns the round configurations of a full attack on the oracle's cipher:
// for every intermediate subkey, innermost first, one step per half of the S-boxes.
// The expected differences are random non-zero nibbles on the active S-boxes.
func (o *Oracle) Plan() []Step {
	var steps []Step
	rounds := o.algorithm.Rounds()
	for _, r := range o.algorithm.IntermediateRounds() {
		for _, active := range halves {
			var expected uint16
			for i, a := range active {
				if a {
					expected |= uint16(1+o.next16()%15) << (4 * uint(i))
				}
			}
			steps = append(steps, Step{Configuration: &dca.RoundConfiguration{
				Round:              r,
				ActiveSBoxes:       active,
				IsLast:             r == rounds,
				IsBeforeLast:       r == rounds-1,
				ExpectedDifference: expected,
				Probability:        1,
			}})
		}
	}
	return steps
}
