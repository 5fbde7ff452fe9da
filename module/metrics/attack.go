package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/CrypToolProject/CrypTool-2-sub021/module"
)

// AttackCollector reports attack statistics to prometheus.
type AttackCollector struct {
	attacksStarted   *prometheus.CounterVec
	attacksFinished  *prometheus.CounterVec
	attackDuration   *prometheus.HistogramVec
	roundDuration    *prometheus.HistogramVec
	candidatesTested *prometheus.CounterVec
	pairsRequested   *prometheus.CounterVec
}

var _ module.DifferentialAttackMetrics = (*AttackCollector)(nil)

// NewAttackCollector registers the attack metrics with the given registerer.
func NewAttackCollector(registerer prometheus.Registerer) *AttackCollector {
	factory := promauto.With(registerer)

	ac := &AttackCollector{
		attacksStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "started_total",
			Namespace: namespaceDCA,
			Subsystem: subsystemAttack,
			Help:      "the number of started key recovery attacks",
		}, []string{LabelAlgorithm}),

		attacksFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "finished_total",
			Namespace: namespaceDCA,
			Subsystem: subsystemAttack,
			Help:      "the number of finished key recovery attacks by terminal status",
		}, []string{LabelAlgorithm, LabelStatus}),

		attackDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "duration_seconds",
			Namespace: namespaceDCA,
			Subsystem: subsystemAttack,
			Help:      "the duration of key recovery attacks",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{LabelAlgorithm, LabelStatus}),

		roundDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "round_duration_seconds",
			Namespace: namespaceDCA,
			Subsystem: subsystemSearch,
			Help:      "the duration of a single round search",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{LabelAlgorithm, LabelRound}),

		candidatesTested: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "candidates_tested_total",
			Namespace: namespaceDCA,
			Subsystem: subsystemSearch,
			Help:      "the number of tested subkey candidates",
		}, []string{LabelAlgorithm}),

		pairsRequested: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "pairs_requested_total",
			Namespace: namespaceDCA,
			Subsystem: subsystemLastRound,
			Help:      "the number of pairs requested from the pair source",
		}, []string{LabelAlgorithm}),
	}

	return ac
}

func (ac *AttackCollector) AttackStarted(algorithm string) {
	ac.attacksStarted.With(prometheus.Labels{LabelAlgorithm: algorithm}).Inc()
}

func (ac *AttackCollector) RoundCompleted(algorithm string, round int, duration time.Duration) {
	ac.roundDuration.With(prometheus.Labels{LabelAlgorithm: algorithm, LabelRound: strconv.Itoa(round)}).Observe(duration.Seconds())
}

func (ac *AttackCollector) KeyCandidatesTested(algorithm string, count int) {
	ac.candidatesTested.With(prometheus.Labels{LabelAlgorithm: algorithm}).Add(float64(count))
}

func (ac *AttackCollector) PairRequested(algorithm string) {
	ac.pairsRequested.With(prometheus.Labels{LabelAlgorithm: algorithm}).Inc()
}

func (ac *AttackCollector) AttackFinished(algorithm string, status string, duration time.Duration) {
	labels := prometheus.Labels{LabelAlgorithm: algorithm, LabelStatus: status}
	ac.attacksFinished.With(labels).Inc()
	ac.attackDuration.With(labels).Observe(duration.Seconds())
}
