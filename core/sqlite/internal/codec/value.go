package codec

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/FocuswithJustin/litequery/internal/errors"
)

// Kind identifies which variant of Value is populated.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindReal
	KindText
	KindBlob
)

// Value is the tagged union every record column decodes into.
type Value struct {
	Kind    Kind
	Integer int64
	Real    float64
	Text    string
	Blob    []byte
}

// IsNull reports whether v holds the Null variant.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// SerialTypePayloadLen returns the number of payload bytes a serial type
// occupies in a record body, and an error if the type is reserved.
func SerialTypePayloadLen(serialType uint64) (int, error) {
	switch {
	case serialType == 0, serialType == 8, serialType == 9:
		return 0, nil
	case serialType >= 1 && serialType <= 4:
		return int(serialType), nil
	case serialType == 5:
		return 6, nil
	case serialType == 6, serialType == 7:
		return 8, nil
	case serialType == 10 || serialType == 11:
		return 0, errors.ErrMalformedRecord
	case serialType%2 == 0:
		return int((serialType - 12) / 2), nil
	default:
		return int((serialType - 13) / 2), nil
	}
}

// DecodeValue decodes one record column given its serial type and the
// payload bytes that follow it (exactly SerialTypePayloadLen(serialType)
// bytes are consumed from the front of data).
func DecodeValue(serialType uint64, data []byte) (Value, error) {
	switch {
	case serialType == 0:
		return Value{Kind: KindNull}, nil
	case serialType == 8:
		return Value{Kind: KindInteger, Integer: 0}, nil
	case serialType == 9:
		return Value{Kind: KindInteger, Integer: 1}, nil
	case serialType >= 1 && serialType <= 6:
		n, _ := SerialTypePayloadLen(serialType)
		if len(data) < n {
			return Value{}, errors.ErrMalformedRecord
		}
		return Value{Kind: KindInteger, Integer: decodeSignedInt(data[:n])}, nil
	case serialType == 7:
		if len(data) < 8 {
			return Value{}, errors.ErrMalformedRecord
		}
		bits := binary.BigEndian.Uint64(data[:8])
		return Value{Kind: KindReal, Real: math.Float64frombits(bits)}, nil
	case serialType == 10 || serialType == 11:
		return Value{}, errors.ErrMalformedRecord
	case serialType%2 == 0:
		n, _ := SerialTypePayloadLen(serialType)
		if len(data) < n {
			return Value{}, errors.ErrMalformedRecord
		}
		blob := make([]byte, n)
		copy(blob, data[:n])
		return Value{Kind: KindBlob, Blob: blob}, nil
	default:
		n, _ := SerialTypePayloadLen(serialType)
		if len(data) < n {
			return Value{}, errors.ErrMalformedRecord
		}
		return Value{Kind: KindText, Text: decodeText(data[:n])}, nil
	}
}

// decodeText converts raw record bytes to a UTF-8 string, replacing
// invalid sequences with the Unicode replacement character.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var out []rune
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		out = append(out, r)
		b = b[size:]
	}
	return string(out)
}

// decodeSignedInt reads n (1, 2, 3, 4, 6, or 8) big-endian bytes and
// sign-extends to a signed 64-bit integer.
func decodeSignedInt(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = (v << 8) | int64(c)
	}
	bits := uint(len(b)) * 8
	shift := 64 - bits
	return (v << shift) >> shift
}
