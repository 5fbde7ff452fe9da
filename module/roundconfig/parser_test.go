package roundconfig_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/roundconfig"
)

const legacyDescription = `{
  "Round": 3,
  "ActiveSBoxes": [true, false, true, false],
  "IsFirst": false,
  "IsLast": true,
  "IsBeforeLast": false,
  "InputDifference": 2816,
  "ExpectedDifference": 1542,
  "Probability": 0.0263671875,
  "Characteristics": [
    {
      "$type": "DCAPathFinder.Logic.Cipher2.Cipher2Characteristic, DCAPathFinder",
      "InputDifferentials": [2816, 64, 1542],
      "OutputDifferentials": [512, 96, 0],
      "Probability": 0.0263671875
    }
  ],
  "SearchPolicy": 1,
  "AbortingPolicy": 0
}`

func TestParse_LegacyProducer(t *testing.T) {
	cfg, err := roundconfig.NewParser().Parse(legacyDescription)
	require.NoError(t, err)

	expected := &dca.RoundConfiguration{
		Round:              3,
		ActiveSBoxes:       [dca.SBoxCount]bool{true, false, true, false},
		IsLast:             true,
		InputDifference:    0x0B00,
		ExpectedDifference: 0x0606,
		Probability:        0.0263671875,
		Characteristics: []dca.Characteristic{{
			InputDifferentials:  []uint16{2816, 64, 1542},
			OutputDifferentials: []uint16{512, 96, 0},
			Probability:         0.0263671875,
		}},
	}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Fatalf("unexpected configuration (-want +got):\n%s", diff)
	}
	assert.Equal(t, uint16(0x0F0F), cfg.ActiveMask())
	assert.Equal(t, 2, cfg.ActiveCount())
}

func TestParse_Errors(t *testing.T) {
	parser := roundconfig.NewParser()

	cases := map[string]struct {
		description string
		err         error
	}{
		"empty":        {"  ", roundconfig.ErrMalformedDescription},
		"not json":     {"{round: 3", roundconfig.ErrMalformedDescription},
		"no sboxes":    {`{"Round": 3, "ActiveSBoxes": [false, false, false, false]}`, roundconfig.ErrMalformedDescription},
		"short flags":  {`{"Round": 3, "ActiveSBoxes": [true]}`, roundconfig.ErrMalformedDescription},
		"bad round":    {`{"Round": 0, "ActiveSBoxes": [true, true, true, true]}`, roundconfig.ErrMalformedDescription},
		"bad diff":     {`{"Round": 2, "ActiveSBoxes": [true, true, true, true], "ExpectedDifference": 70000}`, roundconfig.ErrMalformedDescription},
		"bad prob":     {`{"Round": 2, "ActiveSBoxes": [true, true, true, true], "Probability": 1.5}`, roundconfig.ErrMalformedDescription},
		"bad char":     {`{"Round": 2, "ActiveSBoxes": [true, true, true, true], "Characteristics": [{"Probability": -0.5}]}`, roundconfig.ErrMalformedDescription},
		"foreign type": {`{"Round": 2, "ActiveSBoxes": [true, true, true, true], "Characteristics": [{"$type": "Other.Characteristic, Other"}]}`, roundconfig.ErrUnknownType},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := parser.Parse(c.description)
			require.ErrorIs(t, err, c.err)
			assert.Nil(t, cfg)
		})
	}
}

// TestParse_ReportsEveryViolation checks that all invalid fields are named at once.
func TestParse_ReportsEveryViolation(t *testing.T) {
	_, err := roundconfig.NewParser().Parse(`{"Round": 0, "ActiveSBoxes": [true], "InputDifference": -1, "Probability": 2}`)
	require.ErrorIs(t, err, roundconfig.ErrMalformedDescription)
	for _, field := range []string{"wireConfiguration.Round", "wireConfiguration.ActiveSBoxes", "wireConfiguration.InputDifference", "wireConfiguration.Probability"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := &dca.RoundConfiguration{
		Round:              4,
		ActiveSBoxes:       [dca.SBoxCount]bool{false, true, true, false},
		IsBeforeLast:       true,
		ExpectedDifference: 0x0660,
		Probability:        0.5,
		Characteristics:    []dca.Characteristic{{InputDifferentials: []uint16{1}, OutputDifferentials: []uint16{2}, Probability: 0.5}},
	}
	description, err := roundconfig.Marshal(cfg, dca.Cipher3)
	require.NoError(t, err)
	assert.Contains(t, description, "DCAKeyRecovery.Logic.Cipher3.Cipher3Characteristic, DCAKeyRecovery")

	parsed, err := roundconfig.NewParser().Parse(description)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, parsed); diff != "" {
		t.Fatalf("round trip changed the configuration (-want +got):\n%s", diff)
	}
}

func TestCachingParser(t *testing.T) {
	parser, err := roundconfig.NewCachingParser(roundconfig.NewParser(), 4)
	require.NoError(t, err)

	first, err := parser.Parse(legacyDescription)
	require.NoError(t, err)
	first.SetPairs([]dca.Pair{{Left: 1, Right: 2}}, []dca.Pair{{Left: 3, Right: 4}})

	// the cached value is not affected by mutations of a returned configuration
	second, err := parser.Parse(legacyDescription)
	require.NoError(t, err)
	assert.Empty(t, second.UnfilteredPairs)
	assert.Equal(t, first.ExpectedDifference, second.ExpectedDifference)

	_, err = parser.Parse("{")
	require.ErrorIs(t, err, roundconfig.ErrMalformedDescription)
}
