package cmd

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/outputs"
)

// progressSteps is the resolution of the progress bar.
const progressSteps = 1000

// hostOutputs answers the orchestrator on behalf of the attacked device: pair
// requests are forwarded on requests with the requested difference.
type hostOutputs struct {
	outputs.NoopOutputs

	mu         sync.Mutex
	difference uint16
	roundKeys  []byte
	rounds     []*dca.RoundRecord

	requests chan uint16
}

var _ module.AttackOutputs = (*hostOutputs)(nil)

func newHostOutputs() *hostOutputs {
	return &hostOutputs{requests: make(chan uint16, 16)}
}

func (h *hostOutputs) OnMessageDifference(difference uint16) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.difference = difference
}

func (h *hostOutputs) OnNeededMessageCount(int) {
	h.mu.Lock()
	difference := h.difference
	h.mu.Unlock()

	select {
	case h.requests <- difference:
	default:
		log.Warn().Uint16("difference", difference).Msg("dropping pair request, host is not keeping up")
	}
}

func (h *hostOutputs) OnRoundKeys(keys []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.roundKeys = keys
}

func (h *hostOutputs) OnRoundResult(config *dca.RoundConfiguration, result *dca.RoundResult) {
	record := dca.NewRoundRecord(config, result)
	log.Info().
		Int("round", record.Round).
		Hex("possible_key", []byte{byte(record.PossibleKey >> 8), byte(record.PossibleKey)}).
		Int("filtered_pairs", record.FilteredPairs).
		Float64("probability", record.Probability).
		Msg("round searched")

	h.mu.Lock()
	defer h.mu.Unlock()
	h.rounds = append(h.rounds, record)
}

func (h *hostOutputs) RoundKeys() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.roundKeys
}

func (h *hostOutputs) Rounds() []*dca.RoundRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*dca.RoundRecord(nil), h.rounds...)
}

// progressOutputs renders the progress of the attack on stderr.
type progressOutputs struct {
	outputs.NoopOutputs
	bar *progressbar.ProgressBar
}

var _ module.AttackOutputs = (*progressOutputs)(nil)

func newProgressOutputs(algorithm dca.Algorithm) *progressOutputs {
	bar := progressbar.NewOptions(progressSteps,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(algorithm.String()),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	return &progressOutputs{bar: bar}
}

func (p *progressOutputs) OnProgress(value float64) {
	_ = p.bar.Set(int(value * progressSteps))
}

func (p *progressOutputs) OnRoundProgress(progress dca.RoundProgress) {
	p.bar.Describe(fmt.Sprintf("round %d: candidate %d/%d, best %04x with %d hits",
		progress.Round, progress.TestedCandidates, progress.TotalCandidates, progress.BestCandidate, progress.BestCounter))
}

func (p *progressOutputs) OnLastRoundProgress(progress dca.LastRoundProgress) {
	p.bar.Describe(fmt.Sprintf("last round: %d candidates left", progress.RemainingCandidates))
}

func (p *progressOutputs) OnFinished(bool) {
	_ = p.bar.Finish()
}
