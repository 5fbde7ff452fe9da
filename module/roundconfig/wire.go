package roundconfig

import (
	"fmt"
	"strings"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
)

const (
	// typeNamespace is the namespace and assembly of the type discriminators we accept.
	typeNamespace = "DCAKeyRecovery"
	// legacyTypeNamespace is the namespace used by descriptions of the path finder tool.
	legacyTypeNamespace = "DCAPathFinder"
)

// wireConfiguration is the serialized differential description.
type wireConfiguration struct {
	Type               string               `json:"$type,omitempty"`
	Round              int                  `json:"Round" validate:"min=1"`
	ActiveSBoxes       []bool               `json:"ActiveSBoxes" validate:"len=4"`
	IsFirst            bool                 `json:"IsFirst"`
	IsLast             bool                 `json:"IsLast"`
	IsBeforeLast       bool                 `json:"IsBeforeLast"`
	InputDifference    int                  `json:"InputDifference" validate:"min=0,max=65535"`
	ExpectedDifference int                  `json:"ExpectedDifference" validate:"min=0,max=65535"`
	Probability        float64              `json:"Probability" validate:"min=0,max=1"`
	Characteristics    []wireCharacteristic `json:"Characteristics,omitempty" validate:"dive"`
	SearchPolicy       int                  `json:"SearchPolicy,omitempty"`
	AbortingPolicy     int                  `json:"AbortingPolicy,omitempty"`
}

type wireCharacteristic struct {
	Type                string   `json:"$type,omitempty"`
	InputDifferentials  []uint16 `json:"InputDifferentials"`
	OutputDifferentials []uint16 `json:"OutputDifferentials"`
	Probability         float64  `json:"Probability" validate:"min=0,max=1"`
}

// normalizeTypeTag rewrites a discriminator of the legacy producer into our namespace.
// "DCAPathFinder.Logic.Cipher2.Cipher2Characteristic, DCAPathFinder" becomes
// "DCAKeyRecovery.Logic.Cipher2.Cipher2Characteristic, DCAKeyRecovery".
func normalizeTypeTag(tag string) string {
	return strings.ReplaceAll(tag, legacyTypeNamespace, typeNamespace)
}

func checkTypeTag(tag string) error {
	if tag == "" {
		return nil
	}
	tag = normalizeTypeTag(tag)
	if !strings.HasPrefix(tag, typeNamespace+".") {
		return fmt.Errorf("type %q: %w", tag, ErrUnknownType)
	}
	if i := strings.LastIndex(tag, ","); i >= 0 && strings.TrimSpace(tag[i+1:]) != typeNamespace {
		return fmt.Errorf("assembly of type %q: %w", tag, ErrUnknownType)
	}
	return nil
}

func fromWire(w *wireConfiguration) *dca.RoundConfiguration {
	cfg := &dca.RoundConfiguration{
		Round:              w.Round,
		IsFirst:            w.IsFirst,
		IsLast:             w.IsLast,
		IsBeforeLast:       w.IsBeforeLast,
		InputDifference:    uint16(w.InputDifference),
		ExpectedDifference: uint16(w.ExpectedDifference),
		Probability:        w.Probability,
	}
	copy(cfg.ActiveSBoxes[:], w.ActiveSBoxes)
	for _, c := range w.Characteristics {
		cfg.Characteristics = append(cfg.Characteristics, dca.Characteristic{
			InputDifferentials:  c.InputDifferentials,
			OutputDifferentials: c.OutputDifferentials,
			Probability:         c.Probability,
		})
	}
	return cfg
}

func toWire(cfg *dca.RoundConfiguration, characteristicType string) *wireConfiguration {
	w := &wireConfiguration{
		Round:              cfg.Round,
		ActiveSBoxes:       cfg.ActiveSBoxes[:],
		IsFirst:            cfg.IsFirst,
		IsLast:             cfg.IsLast,
		IsBeforeLast:       cfg.IsBeforeLast,
		InputDifference:    int(cfg.InputDifference),
		ExpectedDifference: int(cfg.ExpectedDifference),
		Probability:        cfg.Probability,
	}
	for _, c := range cfg.Characteristics {
		w.Characteristics = append(w.Characteristics, wireCharacteristic{
			Type:                characteristicType,
			InputDifferentials:  c.InputDifferentials,
			OutputDifferentials: c.OutputDifferentials,
			Probability:         c.Probability,
		})
	}
	return w
}
