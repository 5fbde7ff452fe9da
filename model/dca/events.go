package dca

// RoundProgress is a detailed progress snapshot of a running round search.
type RoundProgress struct {
	Algorithm         Algorithm
	Round             int
	ActiveSBoxes      [SBoxCount]bool
	TestedCandidates  int
	TotalCandidates   int
	BestCandidate     uint16
	BestCounter       int
	DecryptionCounter int
}

// LastRoundProgress is a detailed progress snapshot of the last-round attack.
type LastRoundProgress struct {
	Algorithm           Algorithm
	RemainingCandidates int
	UsedPairs           int
	DecryptionCounter   int
	KeyCounter          int
}
