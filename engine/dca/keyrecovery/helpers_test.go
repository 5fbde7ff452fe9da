package keyrecovery_test

import (
	"bytes"
	"sync"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/outputs"
)

// recordingOutputs records everything the orchestrator publishes. Pair requests
// are forwarded on requests together with the requested difference.
type recordingOutputs struct {
	outputs.NoopOutputs

	mu           sync.Mutex
	roundKeys    [][]byte
	finished     []bool
	progress     []float64
	neededCounts []int
	difference   uint16

	roundResults chan struct{}
	requests     chan uint16
}

func newRecordingOutputs() *recordingOutputs {
	return &recordingOutputs{
		roundResults: make(chan struct{}, 64),
		requests:     make(chan uint16, 64),
	}
}

func (r *recordingOutputs) OnRoundKeys(keys []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roundKeys = append(r.roundKeys, keys)
}

func (r *recordingOutputs) OnFinished(finished bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, finished)
}

func (r *recordingOutputs) OnProgress(value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, value)
}

func (r *recordingOutputs) OnMessageDifference(difference uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.difference = difference
}

func (r *recordingOutputs) OnNeededMessageCount(count int) {
	r.mu.Lock()
	r.neededCounts = append(r.neededCounts, count)
	difference := r.difference
	r.mu.Unlock()

	select {
	case r.requests <- difference:
	default:
	}
}

func (r *recordingOutputs) OnRoundResult(*dca.RoundConfiguration, *dca.RoundResult) {
	select {
	case r.roundResults <- struct{}{}:
	default:
	}
}

func (r *recordingOutputs) RoundKeys() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roundKeys
}

func (r *recordingOutputs) Finished() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

func (r *recordingOutputs) Progress() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.progress...)
}

func (r *recordingOutputs) NeededCounts() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.neededCounts
}

// syncBuffer is a log sink that can be read while the worker writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// monotonicWithinSteps checks that progress never decreases between two resets
// to 0 and never leaves [0, 1].
func monotonicWithinSteps(values []float64) bool {
	previous := 0.0
	for _, v := range values {
		if v < 0 || v > 1 {
			return false
		}
		if v == 0 {
			previous = 0
			continue
		}
		if v < previous {
			return false
		}
		previous = v
	}
	return true
}
