package dca

// KeyProbability is one scored key candidate of a round search.
type KeyProbability struct {
	Key     uint16
	Counter int
}

// RoundResult is the outcome of one RecoverKeyInformation call. PossibleKey is a
// correction: XOR-ing it into the accumulated subkey yields the winning candidate
// on the active S-boxes and leaves all other bits untouched.
type RoundResult struct {
	Round                     int
	PossibleKey               uint16
	Probability               float64
	ExpectedProbability       float64
	KeyCandidateProbabilities []KeyProbability
	DecryptionCounter         int
	FilteredPairCount         int
	SignalToNoise             float64
}

// LastRoundResult holds the two outermost subkeys found by the last-round attack.
type LastRoundResult struct {
	SubKey0           uint16
	SubKey1           uint16
	DecryptionCounter int
	KeyCounter        int
}
