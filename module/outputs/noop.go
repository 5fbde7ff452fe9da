package outputs

import (
	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module"
)

// NoopOutputs discards every output. Embed it to implement a subset of module.AttackOutputs.
type NoopOutputs struct{}

var _ module.AttackOutputs = (*NoopOutputs)(nil)

func NewNoopOutputs() *NoopOutputs {
	return &NoopOutputs{}
}

func (*NoopOutputs) OnRoundKeys([]byte)                                      {}
func (*NoopOutputs) OnNeededMessageCount(int)                                {}
func (*NoopOutputs) OnMessageDifference(uint16)                              {}
func (*NoopOutputs) OnFinished(bool)                                         {}
func (*NoopOutputs) OnProgress(float64)                                      {}
func (*NoopOutputs) OnRoundResult(*dca.RoundConfiguration, *dca.RoundResult) {}
func (*NoopOutputs) OnRoundProgress(dca.RoundProgress)                       {}
func (*NoopOutputs) OnLastRoundProgress(dca.LastRoundProgress)               {}
