// Package roundconfig parses differential descriptions into round configurations.
package roundconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slices"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
)

var (
	// ErrMalformedDescription is returned for descriptions that cannot be decoded or fail validation.
	ErrMalformedDescription = errors.New("malformed differential description")
	// ErrUnknownType is returned for type discriminators outside the accepted namespace.
	ErrUnknownType = errors.New("unknown type discriminator")
)

var wireValidator = validator.New()

// Parser converts a differential description into a RoundConfiguration.
type Parser interface {
	Parse(description string) (*dca.RoundConfiguration, error)
}

// JSONParser decodes the JSON descriptions of the path finder. Discriminators
// written by the legacy producer are normalized into our namespace before they are
// checked, so descriptions of both producers are accepted.
type JSONParser struct{}

var _ Parser = (*JSONParser)(nil)

func NewParser() *JSONParser {
	return &JSONParser{}
}

// Parse returns the configuration described by description. The pair lists of the
// returned configuration are empty.
// Expected errors during normal operations:
//   - ErrMalformedDescription if the description is not valid
//   - ErrUnknownType if a type discriminator is not recognized
func (p *JSONParser) Parse(description string) (*dca.RoundConfiguration, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("empty description: %w", ErrMalformedDescription)
	}

	var w wireConfiguration
	err := json.Unmarshal([]byte(description), &w)
	if err != nil {
		return nil, fmt.Errorf("could not decode description: %v: %w", err, ErrMalformedDescription)
	}

	err = checkTypeTag(w.Type)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration type: %w", err)
	}
	for i, c := range w.Characteristics {
		err = checkTypeTag(c.Type)
		if err != nil {
			return nil, fmt.Errorf("invalid type of characteristic %d: %w", i, err)
		}
	}

	err = validate(&w)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrMalformedDescription)
	}
	return fromWire(&w), nil
}

// validate checks the wire ranges declared in the struct tags and that at least
// one S-box is active. Every violation is reported.
func validate(w *wireConfiguration) error {
	var result *multierror.Error
	err := wireValidator.Struct(w)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			result = multierror.Append(result, fmt.Errorf("%s must satisfy %s, got %v", fe.Namespace(), constraint(fe), fe.Value()))
		}
	} else if err != nil {
		result = multierror.Append(result, err)
	}
	if len(w.ActiveSBoxes) == dca.SBoxCount && !slices.Contains(w.ActiveSBoxes, true) {
		result = multierror.Append(result, fmt.Errorf("no active S-box"))
	}
	return result.ErrorOrNil()
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// Marshal serializes a configuration in the description format, tagging the
// characteristics of the given algorithm.
func Marshal(cfg *dca.RoundConfiguration, algorithm dca.Algorithm) (string, error) {
	n := int(algorithm)
	tag := fmt.Sprintf("%s.Logic.Cipher%d.Cipher%dCharacteristic, %s", typeNamespace, n, n, typeNamespace)
	data, err := json.MarshalIndent(toWire(cfg, tag), "", "  ")
	if err != nil {
		return "", fmt.Errorf("could not encode configuration: %w", err)
	}
	return string(data), nil
}
