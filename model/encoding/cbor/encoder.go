package cbor

import (
	"github.com/fxamacker/cbor/v2"
)

// EncMode uses canonical CBOR so that equal reports encode to equal bytes.
var EncMode = func() cbor.EncMode {
	options := cbor.CanonicalEncOptions()
	options.Time = cbor.TimeRFC3339Nano
	encMode, err := options.EncMode()
	if err != nil {
		panic(err)
	}
	return encMode
}()

// DecMode rejects duplicate map keys.
var DecMode, _ = cbor.DecOptions{
	DupMapKey: cbor.DupMapKeyEnforcedAPF,
}.DecMode()

type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Encode(val interface{}) ([]byte, error) {
	return EncMode.Marshal(val)
}

func (e *Encoder) Decode(b []byte, val interface{}) error {
	return DecMode.Unmarshal(b, val)
}

func (e *Encoder) MustEncode(val interface{}) []byte {
	b, err := e.Encode(val)
	if err != nil {
		panic(err)
	}
	return b
}

func (e *Encoder) MustDecode(b []byte, val interface{}) {
	err := e.Decode(b, val)
	if err != nil {
		panic(err)
	}
}
