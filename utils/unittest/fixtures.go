package unittest

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
)

func Uint16Fixture() uint16 {
	return uint16(rand.Intn(1 << 16))
}

// KeyFixture returns random subkeys k0..kR for the algorithm.
func KeyFixture(algorithm dca.Algorithm) []uint16 {
	keys := make([]uint16, algorithm.SubkeyCount())
	for i := range keys {
		keys[i] = Uint16Fixture()
	}
	return keys
}

func PairFixture() dca.Pair {
	return dca.Pair{Left: Uint16Fixture(), Right: Uint16Fixture()}
}

func PairListFixture(n int) []dca.Pair {
	list := make([]dca.Pair, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, PairFixture())
	}
	return list
}

// RoundConfigurationFixture returns a configuration attacking S-boxes 0 and 1 of
// subkey 2 with a random expected difference on those S-boxes.
func RoundConfigurationFixture(opts ...func(*dca.RoundConfiguration)) *dca.RoundConfiguration {
	cfg := &dca.RoundConfiguration{
		Round:              2,
		ActiveSBoxes:       [dca.SBoxCount]bool{true, true, false, false},
		InputDifference:    Uint16Fixture() | 1,
		ExpectedDifference: (Uint16Fixture() & 0x00ff) | 0x0011,
		Probability:        0.25,
	}
	for _, apply := range opts {
		apply(cfg)
	}
	return cfg
}

func WithRound(round int) func(*dca.RoundConfiguration) {
	return func(cfg *dca.RoundConfiguration) {
		cfg.Round = round
	}
}

func WithActiveSBoxes(active [dca.SBoxCount]bool) func(*dca.RoundConfiguration) {
	return func(cfg *dca.RoundConfiguration) {
		cfg.ActiveSBoxes = active
	}
}

func WithPairs(plaintexts []dca.Pair, ciphertexts []dca.Pair) func(*dca.RoundConfiguration) {
	return func(cfg *dca.RoundConfiguration) {
		cfg.SetPairs(plaintexts, ciphertexts)
	}
}

func AttackRunFixture(algorithm dca.Algorithm) *dca.AttackRun {
	return &dca.AttackRun{
		ID:        uuid.New(),
		Algorithm: algorithm,
		StartedAt: time.Now().UTC().Truncate(time.Millisecond),
		Status:    dca.RunInProgress,
	}
}

func RoundRecordFixture(round int) *dca.RoundRecord {
	return &dca.RoundRecord{
		Round:               round,
		ActiveSBoxes:        [dca.SBoxCount]bool{true, true, false, false},
		ExpectedDifference:  Uint16Fixture(),
		PossibleKey:         Uint16Fixture(),
		Probability:         0.5,
		ExpectedProbability: 0.25,
		UnfilteredPairs:     24,
		FilteredPairs:       20,
		DecryptionCounter:   2 * 256 * 20,
	}
}
