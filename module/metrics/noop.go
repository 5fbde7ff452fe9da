package metrics

import (
	"time"

	"github.com/CrypToolProject/CrypTool-2-sub021/module"
)

type NoopCollector struct{}

var _ module.DifferentialAttackMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) AttackStarted(string)                         {}
func (nc *NoopCollector) RoundCompleted(string, int, time.Duration)    {}
func (nc *NoopCollector) KeyCandidatesTested(string, int)              {}
func (nc *NoopCollector) PairRequested(string)                         {}
func (nc *NoopCollector) AttackFinished(string, string, time.Duration) {}
