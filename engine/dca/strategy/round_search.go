package strategy

import (
	"context"
	"fmt"
	"sync"

	"github.com/montanaflynn/stats"
	"go.uber.org/atomic"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/toycipher"
)

// chunksPerThread splits the candidate space finer than the thread count so that
// progress is reported smoothly and cancellation is noticed quickly.
const chunksPerThread = 8

// roundSearch holds the inputs of one candidate search.
type roundSearch struct {
	round    int
	active   [dca.SBoxCount]bool
	mask     uint16
	expected uint16
	// pairs are the filtered ciphertext pairs, decrypted down to the position where
	// the candidate key is added
	pairs []dca.Pair
	// behindPermutation is set when the candidate is added behind the inverse
	// permutation, i.e. for every subkey but the whitening key
	behindPermutation bool
}

// searchRound runs the statistical distinguisher for the subkey config.Round.
//
// All ciphertext pairs are decrypted with the recovered subkeys down to the key
// addition of the target round. For r < R the inverse permutation is applied to the
// partially decrypted values as well, which moves the candidate bits onto whole
// nibbles. Each candidate then decrypts through the inverse S-box layer and scores a
// hit if the difference on the active nibbles is the expected difference.
func (b *base) searchRound(ctx context.Context, subkeys dca.Subkeys, config *dca.RoundConfiguration) (*dca.RoundResult, error) {
	r := config.Round
	if r < 2 || r > b.rounds {
		return nil, fmt.Errorf("%s cannot search subkey %d: %w", b.algorithm, r, ErrInvalidRound)
	}
	for j := r + 1; j <= b.rounds; j++ {
		if !subkeys.Recovered[j] {
			return nil, fmt.Errorf("searching subkey %d needs subkey %d: %w", r, j, ErrMissingSubkey)
		}
	}
	if len(config.UnfilteredPairs) != len(config.EncryptedPairs) {
		return nil, fmt.Errorf("%d plaintext pairs vs %d ciphertext pairs: %w",
			len(config.UnfilteredPairs), len(config.EncryptedPairs), ErrInvalidPairs)
	}
	n := config.ActiveCount()
	if n == 0 {
		return nil, fmt.Errorf("no active S-box in round %d: %w", r, ErrInvalidRound)
	}

	search := &roundSearch{
		round:             r,
		active:            config.ActiveSBoxes,
		mask:              config.ActiveMask(),
		expected:          config.ExpectedDifference,
		behindPermutation: r < b.rounds,
	}
	search.pairs = b.filterPairs(subkeys, config, search.behindPermutation)

	total := 1 << (4 * n)
	counters, err := b.countHits(ctx, search, total)
	if err != nil {
		return nil, err
	}
	b.metrics.KeyCandidatesTested(b.algorithm.String(), total)

	best := 0
	for i, c := range counters {
		if c > counters[best] {
			best = i
		}
	}
	if counters[best] == 0 {
		b.log.Debug().
			Int("round", r).
			Int("filtered_pairs", len(search.pairs)).
			Msg("no key candidate matched a single pair")
		return nil, nil
	}

	keyMask := search.mask
	if search.behindPermutation {
		keyMask = toycipher.Permute(keyMask)
	}
	candidates := make([]dca.KeyProbability, total)
	scores := make(stats.Float64Data, total)
	for i, c := range counters {
		candidates[i] = dca.KeyProbability{Key: search.candidateKey(i), Counter: c}
		scores[i] = float64(c)
	}
	slices.SortStableFunc(candidates, func(x, y dca.KeyProbability) int {
		return y.Counter - x.Counter
	})

	result := &dca.RoundResult{
		Round:                     r,
		PossibleKey:               search.candidateKey(best) ^ (subkeys.Keys[r] & keyMask),
		ExpectedProbability:       config.Probability,
		KeyCandidateProbabilities: candidates,
		DecryptionCounter:         2 * total * len(search.pairs),
		FilteredPairCount:         len(search.pairs),
		SignalToNoise:             signalToNoise(scores, counters[best]),
	}
	if len(config.UnfilteredPairs) > 0 {
		result.Probability = float64(counters[best]) / float64(len(config.UnfilteredPairs))
	}

	b.log.Info().
		Int("round", r).
		Str("candidate", fmt.Sprintf("%04x", candidates[0].Key)).
		Int("hits", counters[best]).
		Int("filtered_pairs", len(search.pairs)).
		Float64("snr", result.SignalToNoise).
		Msg("round search finished")
	return result, nil
}

// candidateKey returns the subkey bits of candidate i.
func (s *roundSearch) candidateKey(i int) uint16 {
	guess := toycipher.Spread(uint32(i), s.active)
	if s.behindPermutation {
		return toycipher.Permute(guess)
	}
	return guess
}

// hits counts the pairs for which candidate i yields the expected difference.
func (s *roundSearch) hits(i int) int {
	guess := toycipher.Spread(uint32(i), s.active)
	want := s.expected & s.mask
	count := 0
	for _, p := range s.pairs {
		left := toycipher.InverseSubstitute(p.Left ^ guess)
		right := toycipher.InverseSubstitute(p.Right ^ guess)
		if (left^right)&s.mask == want {
			count++
		}
	}
	return count
}

// countHits scores all candidates in parallel. Every chunk writes only its own
// slice of counters. A panic in a chunk fails the search with an error.
func (b *base) countHits(ctx context.Context, search *roundSearch, total int) ([]int, error) {
	counters := make([]int, total)
	chunk := total / (b.threads * chunksPerThread)
	if chunk < 1 {
		chunk = 1
	}
	tested := atomic.NewInt64(0)
	leader := &leadingCandidate{index: -1}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(b.threads)
	for start := 0; start < total; start += chunk {
		if groupCtx.Err() != nil {
			break
		}
		start := start
		end := start + chunk
		if end > total {
			end = total
		}
		group.Go(func() (err error) {
			defer recoverChunk(&err)

			best, bestCount := -1, -1
			for i := start; i < end; i++ {
				if i%256 == 0 && groupCtx.Err() != nil {
					return groupCtx.Err()
				}
				counters[i] = search.hits(i)
				if counters[i] > bestCount {
					best, bestCount = i, counters[i]
				}
			}
			leader.offer(best, bestCount)
			done := tested.Add(int64(end - start))
			b.consumer.OnProgressIncrement(float64(end-start) / float64(total))
			if b.allowDetailed() {
				b.consumer.OnRoundProgress(b.roundProgress(search, leader, int(done), total))
			}
			return nil
		})
	}
	err := group.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("candidate search of round %d aborted: %w", search.round, err)
	}
	if b.detailed {
		b.consumer.OnRoundProgress(b.roundProgress(search, leader, total, total))
	}
	return counters, nil
}

func (b *base) roundProgress(search *roundSearch, leader *leadingCandidate, tested int, total int) dca.RoundProgress {
	progress := dca.RoundProgress{
		Algorithm:         b.algorithm,
		Round:             search.round,
		ActiveSBoxes:      search.active,
		TestedCandidates:  tested,
		TotalCandidates:   total,
		DecryptionCounter: 2 * tested * len(search.pairs),
	}
	if index, counter := leader.get(); index >= 0 {
		progress.BestCandidate = search.candidateKey(index)
		progress.BestCounter = counter
	}
	return progress
}

// leadingCandidate is the best candidate scored so far. Ties go to the lowest
// index, which is the candidate the final ranking puts first.
type leadingCandidate struct {
	mu      sync.Mutex
	index   int
	counter int
}

func (l *leadingCandidate) offer(index int, counter int) {
	if index < 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index < 0 || counter > l.counter || (counter == l.counter && index < l.index) {
		l.index = index
		l.counter = counter
	}
}

func (l *leadingCandidate) get() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index, l.counter
}

// signalToNoise is the distance of the best counter from the mean counter in
// standard deviations. A flat distribution yields 0.
func signalToNoise(scores stats.Float64Data, best int) float64 {
	mean, err := stats.Mean(scores)
	if err != nil {
		return 0
	}
	deviation, err := stats.StandardDeviation(scores)
	if err != nil || deviation == 0 {
		return 0
	}
	return (float64(best) - mean) / deviation
}
