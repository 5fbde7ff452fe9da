package keyrecovery_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrypToolProject/CrypTool-2-sub021/engine/dca/keyrecovery"
	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/metrics"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/oracle"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/pairs"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/roundconfig"
	"github.com/CrypToolProject/CrypTool-2-sub021/utils/unittest"
)

const trailPairsPerStep = 24

// answerPairRequests plays the external pair source until the run finishes.
func answerPairRequests(t *testing.T, o *keyrecovery.Orchestrator, out *recordingOutputs, source *oracle.Oracle) {
	deadline := time.After(30 * time.Second)
	for {
		select {
		case <-o.Done():
			return
		case difference := <-out.requests:
			pt, ct := source.ChosenPair(difference)
			o.SetPlaintextPairs(pairs.Encode([]dca.Pair{pt}))
			o.SetCiphertextPairs(pairs.Encode([]dca.Pair{ct}))
			o.Execute()
		case <-deadline:
			t.Fatal("attack did not finish in time")
		}
	}
}

func newOrchestrator(out *recordingOutputs) *keyrecovery.Orchestrator {
	return keyrecovery.NewOrchestrator(unittest.Logger(), metrics.NewNoopCollector(), out, nil, roundconfig.NewParser())
}

// TestEndToEnd_Cipher1 recovers both subkeys of the single round cipher from chosen
// plaintext pairs only.
func TestEndToEnd_Cipher1(t *testing.T) {
	keys := []uint16{0x1234, 0xabcd}
	source, err := oracle.New(dca.Cipher1, keys, 1)
	require.NoError(t, err)

	out := newRecordingOutputs()
	o := newOrchestrator(out)
	require.NoError(t, o.PreExecution(keyrecovery.Config{
		Algorithm:     dca.Cipher1,
		ThreadCount:   2,
		AutomaticMode: true,
	}))
	defer o.PostExecution()

	pt, ct := source.ChosenPair(0x0f0f)
	o.SetPlaintextPairs(pairs.Encode([]dca.Pair{pt}))
	o.SetCiphertextPairs(pairs.Encode([]dca.Pair{ct}))
	o.Execute()

	answerPairRequests(t, o, out, source)

	assert.Equal(t, [][]byte{{0x12, 0x34, 0xab, 0xcd}}, out.RoundKeys())
	finished := out.Finished()
	require.NotEmpty(t, finished)
	assert.True(t, finished[len(finished)-1])
	assert.True(t, monotonicWithinSteps(out.Progress()))
}

// TestEndToEnd_MultiRound recovers the full key of the multi round ciphers from
// zero-noise trail pairs and chosen plaintext pairs.
func TestEndToEnd_MultiRound(t *testing.T) {
	cases := map[string]struct {
		algorithm dca.Algorithm
		keys      []uint16
	}{
		"cipher2": {dca.Cipher2, []uint16{0x1234, 0xabcd, 0x5a5a, 0x0f1e}},
		"cipher3": {dca.Cipher3, []uint16{0x0001, 0xfedc, 0x3c3c, 0x7777, 0x2468, 0xbeef}},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			source, err := oracle.New(tc.algorithm, tc.keys, 7)
			require.NoError(t, err)

			out := newRecordingOutputs()
			o := newOrchestrator(out)
			require.NoError(t, o.PreExecution(keyrecovery.Config{
				Algorithm:              tc.algorithm,
				ThreadCount:            4,
				AutomaticMode:          true,
				UIUpdateWhileExecution: true,
			}))
			defer o.PostExecution()

			for _, step := range source.Plan() {
				cfg := step.Configuration
				pt, ct, err := source.TrailPairs(cfg.Round, cfg.ExpectedDifference, trailPairsPerStep)
				require.NoError(t, err)
				description, err := roundconfig.Marshal(cfg, tc.algorithm)
				require.NoError(t, err)

				o.SetDifferential(description)
				o.SetPlaintextPairs(pairs.Encode(pt))
				o.SetCiphertextPairs(pairs.Encode(ct))
				o.Execute()
			}

			answerPairRequests(t, o, out, source)

			assert.Equal(t, [][]byte{dca.EncodeRoundKeys(tc.keys)}, out.RoundKeys())
			finished := out.Finished()
			require.NotEmpty(t, finished)
			assert.True(t, finished[len(finished)-1])
			assert.True(t, monotonicWithinSteps(out.Progress()))
			assert.Positive(t, o.PairRequests())
		})
	}
}
