package codec

import "github.com/FocuswithJustin/litequery/internal/errors"

// Record is a decoded row: its values in column order. A table row's rowid
// is carried separately by the cell that produced the record (see the page
// package), since table leaf cells store it outside the record body; index
// records instead hold the rowid as their last column.
type Record struct {
	Values []Value
}

// DecodeRecord parses a record body of the form:
//
//	varint header_size (inclusive of itself)
//	serial_type varint, repeated until header_size bytes are consumed
//	values, back to back, widths implied by their serial types
func DecodeRecord(data []byte) (Record, error) {
	if len(data) == 0 {
		return Record{}, errors.ErrMalformedRecord
	}

	headerSize, n, err := GetVarint(data)
	if err != nil {
		return Record{}, err
	}
	if headerSize == 0 || int(headerSize) > len(data) {
		return Record{}, errors.ErrMalformedRecord
	}

	offset := n
	var serialTypes []uint64
	for offset < int(headerSize) {
		st, m, err := GetVarint(data[offset:])
		if err != nil {
			return Record{}, err
		}
		serialTypes = append(serialTypes, st)
		offset += m
	}
	if offset != int(headerSize) {
		return Record{}, errors.ErrMalformedRecord
	}

	values := make([]Value, len(serialTypes))
	for i, st := range serialTypes {
		payloadLen, err := SerialTypePayloadLen(st)
		if err != nil {
			return Record{}, err
		}
		if offset+payloadLen > len(data) {
			return Record{}, errors.ErrMalformedRecord
		}
		val, err := DecodeValue(st, data[offset:offset+payloadLen])
		if err != nil {
			return Record{}, err
		}
		values[i] = val
		offset += payloadLen
	}

	return Record{Values: values}, nil
}
