package encoding

import (
	"fmt"
	"strings"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/encoding/cbor"
	"github.com/CrypToolProject/CrypTool-2-sub021/model/encoding/json"
	"github.com/CrypToolProject/CrypTool-2-sub021/model/encoding/msgpack"
	"github.com/CrypToolProject/CrypTool-2-sub021/model/encoding/yaml"
)

// Encoder encodes and decodes values to and from bytes.
type Encoder interface {
	// Encode encodes a value as bytes.
	//
	// This function returns an error if the value type is not supported by this encoder.
	Encode(interface{}) ([]byte, error)

	// Decode decodes bytes into a value.
	//
	// This functions returns an error if the bytes do not fit the provided value type.
	Decode([]byte, interface{}) error

	// MustEncode encodes a value as bytes.
	//
	// This functions panic if encoding fails.
	MustEncode(interface{}) []byte

	// MustDecode decodes bytes into a value.
	//
	// This functions panic if decoding fails.
	MustDecode([]byte, interface{})
}

// DefaultEncoder is used for attack reports unless another format is requested.
var DefaultEncoder Encoder = json.NewEncoder()

// ForFormat returns the encoder registered under the given format name.
func ForFormat(format string) (Encoder, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return json.NewEncoder(), nil
	case "cbor":
		return cbor.NewEncoder(), nil
	case "msgpack":
		return msgpack.NewEncoder(), nil
	case "yaml", "yml":
		return yaml.NewEncoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding format %q", format)
	}
}
