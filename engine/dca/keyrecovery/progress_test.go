package keyrecovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/CrypToolProject/CrypTool-2-sub021/module/outputs"
)

type progressRecorder struct {
	outputs.NoopOutputs
	values []float64
}

func (p *progressRecorder) OnProgress(value float64) {
	p.values = append(p.values, value)
}

func TestProgress_MonotonicAndClamped(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		deltas := rapid.SliceOf(rapid.Float64Range(-0.5, 0.5)).Draw(t, "deltas")

		recorder := &progressRecorder{}
		p := newProgress(recorder)
		p.reset()
		for _, d := range deltas {
			p.add(d)
		}

		require.Equal(t, 0.0, recorder.values[0])
		for i := 1; i < len(recorder.values); i++ {
			if recorder.values[i] < recorder.values[i-1] {
				t.Fatalf("progress decreased from %v to %v", recorder.values[i-1], recorder.values[i])
			}
			if recorder.values[i] > 1 {
				t.Fatalf("progress %v exceeds 1", recorder.values[i])
			}
		}
	})
}

func TestProgress_ResetAndComplete(t *testing.T) {
	recorder := &progressRecorder{}
	p := newProgress(recorder)

	p.add(0.75)
	p.add(0.75)
	assert.Equal(t, 1.0, p.current())

	p.reset()
	assert.Equal(t, 0.0, p.current())
	p.add(0.25)
	p.complete()

	assert.Equal(t, []float64{0.75, 1, 0, 0.25, 1}, recorder.values)
}
