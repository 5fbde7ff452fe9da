package strategy

import (
	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/toycipher"
)

// filterPairs decrypts the ciphertext pairs of config down to the key addition of
// the target round and drops every pair whose difference at that point cannot be
// produced by the expected difference passing the S-box layer. Those pairs cannot
// be right pairs for any candidate.
func (b *base) filterPairs(subkeys dca.Subkeys, config *dca.RoundConfiguration, behindPermutation bool) []dca.Pair {
	filtered := make([]dca.Pair, 0, len(config.EncryptedPairs))
	for _, ct := range config.EncryptedPairs {
		left := toycipher.Peel(ct.Left, subkeys.Keys, b.rounds, config.Round)
		right := toycipher.Peel(ct.Right, subkeys.Keys, b.rounds, config.Round)
		if behindPermutation {
			left = toycipher.Permute(left)
			right = toycipher.Permute(right)
		}
		if !toycipher.Possible(config.ExpectedDifference, left^right) {
			continue
		}
		filtered = append(filtered, dca.Pair{Left: left, Right: right})
	}
	b.log.Debug().
		Int("round", config.Round).
		Int("pairs", len(config.EncryptedPairs)).
		Int("filtered_pairs", len(filtered)).
		Msg("filtered pairs")
	return filtered
}
