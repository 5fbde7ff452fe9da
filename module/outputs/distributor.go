// Package outputs contains implementations of module.AttackOutputs.
package outputs

import (
	"sync"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module"
)

// Distributor fans every output out to all subscribed sinks in subscription order.
type Distributor struct {
	mu    sync.RWMutex
	sinks []module.AttackOutputs
}

var _ module.AttackOutputs = (*Distributor)(nil)

func NewDistributor() *Distributor {
	return &Distributor{}
}

// AddOutputs subscribes a sink.
func (d *Distributor) AddOutputs(sink module.AttackOutputs) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, sink)
}

func (d *Distributor) each(f func(module.AttackOutputs)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, sink := range d.sinks {
		f(sink)
	}
}

func (d *Distributor) OnRoundKeys(keys []byte) {
	d.each(func(s module.AttackOutputs) { s.OnRoundKeys(keys) })
}

func (d *Distributor) OnNeededMessageCount(count int) {
	d.each(func(s module.AttackOutputs) { s.OnNeededMessageCount(count) })
}

func (d *Distributor) OnMessageDifference(difference uint16) {
	d.each(func(s module.AttackOutputs) { s.OnMessageDifference(difference) })
}

func (d *Distributor) OnFinished(finished bool) {
	d.each(func(s module.AttackOutputs) { s.OnFinished(finished) })
}

func (d *Distributor) OnProgress(value float64) {
	d.each(func(s module.AttackOutputs) { s.OnProgress(value) })
}

func (d *Distributor) OnRoundResult(config *dca.RoundConfiguration, result *dca.RoundResult) {
	d.each(func(s module.AttackOutputs) { s.OnRoundResult(config, result) })
}

func (d *Distributor) OnRoundProgress(progress dca.RoundProgress) {
	d.each(func(s module.AttackOutputs) { s.OnRoundProgress(progress) })
}

func (d *Distributor) OnLastRoundProgress(progress dca.LastRoundProgress) {
	d.each(func(s module.AttackOutputs) { s.OnLastRoundProgress(progress) })
}
