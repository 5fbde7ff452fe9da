package dca

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrRoundRecovered is returned when a result is merged into a subkey that is already complete.
	ErrRoundRecovered = errors.New("subkey already recovered")
	// ErrRoundOutOfRange is returned for subkey indices the cipher does not recover iteratively.
	ErrRoundOutOfRange = errors.New("round out of range")
)

// Subkeys is a read-only copy of the recovered key material handed to a strategy.
type Subkeys struct {
	Algorithm Algorithm
	Keys      []uint16
	Recovered []bool
}

// Key returns subkey r.
func (s Subkeys) Key(r int) uint16 {
	return s.Keys[r]
}

// AttackState is the record of an attack run: the XOR-accumulated subkeys, which
// S-boxes of each round were attacked and the history of merged rounds.
//
// AttackState is not concurrency safe. It is owned by the orchestrator's worker.
type AttackState struct {
	algorithm Algorithm
	subkeys   []uint16
	recovered []bool
	attacked  [][SBoxCount]bool

	configurations []*RoundConfiguration
	results        []*RoundResult
}

func NewAttackState(algorithm Algorithm) *AttackState {
	n := algorithm.SubkeyCount()
	return &AttackState{
		algorithm: algorithm,
		subkeys:   make([]uint16, n),
		recovered: make([]bool, n),
		attacked:  make([][SBoxCount]bool, n),
	}
}

func (s *AttackState) Algorithm() Algorithm {
	return s.algorithm
}

func (s *AttackState) Subkey(r int) uint16 {
	return s.subkeys[r]
}

func (s *AttackState) Recovered(r int) bool {
	return s.recovered[r]
}

// Attacked returns the per S-box attacked flags of subkey r.
func (s *AttackState) Attacked(r int) [SBoxCount]bool {
	return s.attacked[r]
}

// NextRound returns the innermost intermediate subkey that is not recovered yet.
// It returns false once all intermediate subkeys are known.
func (s *AttackState) NextRound() (int, bool) {
	for _, r := range s.algorithm.IntermediateRounds() {
		if !s.recovered[r] {
			return r, true
		}
	}
	return 0, false
}

// IntermediateRecovered reports whether the last-round attack can start.
func (s *AttackState) IntermediateRecovered() bool {
	_, pending := s.NextRound()
	return !pending
}

// Merge XORs the result's correction into the targeted subkey and flags the active
// S-boxes as attacked. It returns true exactly when this merge completed the subkey.
func (s *AttackState) Merge(config *RoundConfiguration, result *RoundResult) (bool, error) {
	r := config.Round
	if r < 2 || r > s.algorithm.Rounds() {
		return false, fmt.Errorf("cannot merge round %d of %s: %w", r, s.algorithm, ErrRoundOutOfRange)
	}
	if s.recovered[r] {
		return false, fmt.Errorf("cannot merge round %d: %w", r, ErrRoundRecovered)
	}

	s.subkeys[r] ^= result.PossibleKey
	complete := true
	for i, active := range config.ActiveSBoxes {
		if active {
			s.attacked[r][i] = true
		}
		complete = complete && s.attacked[r][i]
	}
	s.configurations = append(s.configurations, config)
	s.results = append(s.results, result)

	if complete {
		s.recovered[r] = true
	}
	return complete, nil
}

// ApplyLastRound fills in the two outermost subkeys.
func (s *AttackState) ApplyLastRound(result *LastRoundResult) {
	s.subkeys[0] = result.SubKey0
	s.subkeys[1] = result.SubKey1
	s.recovered[0] = true
	s.recovered[1] = true
}

// History returns the merged configurations and results in merge order.
func (s *AttackState) History() ([]*RoundConfiguration, []*RoundResult) {
	return s.configurations, s.results
}

// Snapshot copies the key material for a strategy call.
func (s *AttackState) Snapshot() Subkeys {
	keys := make([]uint16, len(s.subkeys))
	copy(keys, s.subkeys)
	recovered := make([]bool, len(s.recovered))
	copy(recovered, s.recovered)
	return Subkeys{
		Algorithm: s.algorithm,
		Keys:      keys,
		Recovered: recovered,
	}
}

// RoundKeys serializes all subkeys k0, k1, k2, ... with the most significant byte first.
func (s *AttackState) RoundKeys() []byte {
	return EncodeRoundKeys(s.subkeys)
}

// EncodeRoundKeys serializes the subkeys in index order, two bytes each, big endian.
func EncodeRoundKeys(subkeys []uint16) []byte {
	out := make([]byte, 2*len(subkeys))
	for i, k := range subkeys {
		binary.BigEndian.PutUint16(out[2*i:], k)
	}
	return out
}
