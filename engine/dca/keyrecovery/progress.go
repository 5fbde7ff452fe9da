package keyrecovery

import (
	"sync"

	"github.com/CrypToolProject/CrypTool-2-sub021/module"
)

// progress accumulates the progress of the current step. Within a step the
// reported value never decreases and never exceeds 1.
type progress struct {
	mu      sync.Mutex
	value   float64
	outputs module.AttackOutputs
}

func newProgress(outputs module.AttackOutputs) *progress {
	return &progress{outputs: outputs}
}

// reset starts a new step at 0.
func (p *progress) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = 0
	p.outputs.OnProgress(p.value)
}

// add increments the progress. Non-positive increments are ignored.
func (p *progress) add(delta float64) {
	if delta <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value += delta
	if p.value > 1 {
		p.value = 1
	}
	p.outputs.OnProgress(p.value)
}

// complete finishes the step.
func (p *progress) complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = 1
	p.outputs.OnProgress(p.value)
}

func (p *progress) current() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}
