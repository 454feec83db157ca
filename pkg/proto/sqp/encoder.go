package sqp

import (
	"bytes"
	"encoding/binary"
)

// maxStringLength is the longest string which fits behind a one byte length prefix.
const maxStringLength = 255

type (
	// encoder is a struct which implements proto.WireEncoder.
	encoder struct{}
)

// WriteString writes a length prefixed string to the provided buffer.
func (e *encoder) WriteString(resp *bytes.Buffer, s string) error {
	if err := resp.WriteByte(byte(len(s))); err != nil {
		return err
	}

	_, err := resp.WriteString(s)

	return err
}

// Write writes arbitrary data to the provided buffer.
func (e *encoder) Write(resp *bytes.Buffer, v interface{}) error {
	return binary.Write(resp, binary.BigEndian, v)
}
