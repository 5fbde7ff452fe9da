package strategy

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/gammazero/workerpool"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/pairs"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/toycipher"
)

const (
	keySpace = 1 << 16
	// sieveChunk is the number of candidates one pool task filters.
	sieveChunk = 4096
	// lastRoundSearchShare is the share of progress reported while candidates shrink.
	lastRoundSearchShare = 0.9
)

// attackLastRound recovers k1 and k0. Every candidate for k1 decrypts the ciphertext
// pair down to the first S-box layer; candidates whose difference there differs from
// the plaintext difference are discarded. Pairs are requested one at a time until a
// single candidate survives. k0 then follows from the last pair.
func (b *base) attackLastRound(ctx context.Context, subkeys dca.Subkeys) (*dca.LastRoundResult, error) {
	for j := 2; j <= b.rounds; j++ {
		if !subkeys.Recovered[j] {
			return nil, fmt.Errorf("last-round attack needs subkey %d: %w", j, ErrMissingSubkey)
		}
	}

	pool := workerpool.New(b.threads)
	defer pool.StopWait()

	candidates := make([]uint16, keySpace)
	for i := range candidates {
		candidates[i] = uint16(i)
	}

	result := &dca.LastRoundResult{}
	var last pairs.Message
	usedPairs := 0
	reported := 0.0
	for len(candidates) > 1 {
		message, err := b.buffer.Next(ctx, b.requestPair)
		if err != nil {
			return nil, fmt.Errorf("last-round attack interrupted: %w", err)
		}
		usedPairs++

		tested := len(candidates)
		candidates, err = b.sieve(pool, subkeys, candidates, message)
		if err != nil {
			return nil, fmt.Errorf("last-round sieve failed: %w", err)
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("last-round attack interrupted: %w", ctx.Err())
		}
		result.DecryptionCounter += 2 * tested
		result.KeyCounter += tested
		b.metrics.KeyCandidatesTested(b.algorithm.String(), tested)
		last = message

		b.log.Debug().
			Int("pairs", usedPairs).
			Int("buffered_pairs", b.buffer.Len()).
			Int("candidates", len(candidates)).
			Msg("sieved last-round candidates")

		if len(candidates) == 0 {
			b.log.Debug().Int("pairs", usedPairs).Msg("no last-round key is consistent with the pairs")
			return nil, nil
		}

		target := lastRoundSearchShare * (16 - math.Log2(float64(len(candidates)))) / 16
		if target > reported {
			b.consumer.OnProgressIncrement(target - reported)
			reported = target
		}
		if b.allowDetailed() {
			b.consumer.OnLastRoundProgress(dca.LastRoundProgress{
				Algorithm:           b.algorithm,
				RemainingCandidates: len(candidates),
				UsedPairs:           usedPairs,
				DecryptionCounter:   result.DecryptionCounter,
				KeyCounter:          result.KeyCounter,
			})
		}
	}

	result.SubKey1 = candidates[0]
	state := b.firstRoundState(subkeys, last.Ciphertext.Left, result.SubKey1)
	result.SubKey0 = state ^ last.Plaintext.Left
	b.consumer.OnProgressIncrement(1 - reported)

	b.log.Info().
		Str("k0", fmt.Sprintf("%04x", result.SubKey0)).
		Str("k1", fmt.Sprintf("%04x", result.SubKey1)).
		Int("pairs", usedPairs).
		Msg("last-round attack finished")
	return result, nil
}

// firstRoundState decrypts a ciphertext down to the input of the first S-box layer
// with subkey k1 set to candidate.
func (b *base) firstRoundState(subkeys dca.Subkeys, ciphertext uint16, candidate uint16) uint16 {
	x := toycipher.Peel(ciphertext, subkeys.Keys, b.rounds, 1) ^ candidate
	if b.rounds > 1 {
		x = toycipher.Permute(x)
	}
	return toycipher.InverseSubstitute(x)
}

// sieve keeps the candidates consistent with the message. Chunks are filtered on
// the pool and concatenated in order, so the result is deterministic. A panic in
// a chunk is returned as an error once all chunks are done.
func (b *base) sieve(pool *workerpool.WorkerPool, subkeys dca.Subkeys, candidates []uint16, message pairs.Message) ([]uint16, error) {
	want := message.Plaintext.Difference()
	chunks := make([][]uint16, (len(candidates)+sieveChunk-1)/sieveChunk)

	var (
		wg       sync.WaitGroup
		failOnce sync.Once
		failure  error
	)
	for c := range chunks {
		c := c
		start := c * sieveChunk
		end := start + sieveChunk
		if end > len(candidates) {
			end = len(candidates)
		}
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			var err error
			defer func() {
				if err != nil {
					failOnce.Do(func() { failure = err })
				}
			}()
			defer recoverChunk(&err)

			var kept []uint16
			for _, k := range candidates[start:end] {
				left := b.firstRoundState(subkeys, message.Ciphertext.Left, k)
				right := b.firstRoundState(subkeys, message.Ciphertext.Right, k)
				if left^right == want {
					kept = append(kept, k)
				}
			}
			chunks[c] = kept
		})
	}
	wg.Wait()
	if failure != nil {
		return nil, failure
	}

	var survivors []uint16
	for _, kept := range chunks {
		survivors = append(survivors, kept...)
	}
	return survivors, nil
}
