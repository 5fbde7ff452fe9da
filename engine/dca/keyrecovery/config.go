package keyrecovery

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
)

// Config holds the settings of an attack run. The mapstructure keys are the names
// of the command line flags.
type Config struct {
	// Algorithm selects the attacked cipher and with it the key recovery strategy.
	Algorithm dca.Algorithm `mapstructure:"algorithm" validate:"algorithm"`
	// ThreadCount bounds the parallelism of the round searches.
	ThreadCount int `mapstructure:"threads" validate:"min=1"`
	// AutomaticMode skips the manual start and step gates.
	AutomaticMode bool `mapstructure:"automatic"`
	// UIUpdateWhileExecution enables detailed progress events.
	UIUpdateWhileExecution bool `mapstructure:"ui-update"`
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New()
	// the tag name is a constant, registration cannot fail
	_ = v.RegisterValidation("algorithm", func(fl validator.FieldLevel) bool {
		return dca.Algorithm(fl.Field().Int()).Valid()
	})
	return v
}

func DefaultConfig() Config {
	return Config{
		Algorithm:              dca.Cipher2,
		ThreadCount:            runtime.NumCPU(),
		AutomaticMode:          true,
		UIUpdateWhileExecution: true,
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	err := configValidator.Struct(c)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var result *multierror.Error
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "Algorithm":
			result = multierror.Append(result, fmt.Errorf("unknown algorithm %d", int(c.Algorithm)))
		case "ThreadCount":
			result = multierror.Append(result, fmt.Errorf("thread count must be positive, got %d", c.ThreadCount))
		default:
			result = multierror.Append(result, fe)
		}
	}
	return result.ErrorOrNil()
}

// ConfigDecodeHook decodes settings into a Config. Algorithms are accepted by
// name or number.
func ConfigDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		decodeAlgorithm,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func decodeAlgorithm(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(dca.Algorithm(0)) {
		return data, nil
	}
	return dca.ParseAlgorithm(data.(string))
}
