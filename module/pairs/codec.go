// Package pairs converts the flat pair streams of the pair source into pair lists
// and buffers pairs requested during the last-round attack.
package pairs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
)

// RecordSize is the number of bytes of one encoded pair.
const RecordSize = 4

var (
	// ErrInvalidLength is returned for streams whose length is not a multiple of RecordSize.
	ErrInvalidLength = errors.New("pair stream length is not a multiple of 4")
	// ErrLengthMismatch is returned when plaintext and ciphertext streams hold different numbers of pairs.
	ErrLengthMismatch = errors.New("plaintext and ciphertext pair counts differ")
)

// Decode converts a flat stream of 4-byte records into pairs. Each record holds the
// left and the right word, most significant byte first. A stream of invalid length
// yields no pairs at all.
func Decode(data []byte) ([]dca.Pair, error) {
	if len(data)%RecordSize != 0 {
		return nil, fmt.Errorf("could not decode %d bytes: %w", len(data), ErrInvalidLength)
	}
	pairs := make([]dca.Pair, 0, len(data)/RecordSize)
	for i := 0; i < len(data); i += RecordSize {
		pairs = append(pairs, dca.Pair{
			Left:  binary.BigEndian.Uint16(data[i:]),
			Right: binary.BigEndian.Uint16(data[i+2:]),
		})
	}
	return pairs, nil
}

// DecodeFrom consumes the entire reader and decodes it.
func DecodeFrom(r io.Reader) ([]dca.Pair, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read pair stream: %w", err)
	}
	return Decode(data)
}

// Encode is the inverse of Decode.
func Encode(pairs []dca.Pair) []byte {
	data := make([]byte, RecordSize*len(pairs))
	for i, p := range pairs {
		binary.BigEndian.PutUint16(data[RecordSize*i:], p.Left)
		binary.BigEndian.PutUint16(data[RecordSize*i+2:], p.Right)
	}
	return data
}

// DecodeStreams decodes the parallel plaintext and ciphertext streams.
// Expected errors during normal operations:
//   - ErrInvalidLength if either stream has an invalid length
//   - ErrLengthMismatch if the streams decode to different numbers of pairs
func DecodeStreams(plaintexts, ciphertexts []byte) ([]dca.Pair, []dca.Pair, error) {
	pt, err := Decode(plaintexts)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid plaintext stream: %w", err)
	}
	ct, err := Decode(ciphertexts)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid ciphertext stream: %w", err)
	}
	if len(pt) != len(ct) {
		return nil, nil, fmt.Errorf("%d plaintext pairs vs %d ciphertext pairs: %w", len(pt), len(ct), ErrLengthMismatch)
	}
	return pt, ct, nil
}
