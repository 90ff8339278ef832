// Package rawio holds the low-level read/parse helpers shared by the format
// drivers: endian-normalized binary value reads and tolerant numeric parsing
// for loosely specified text formats.
package rawio

import (
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"
)

// ReadInt32 reads one 32-bit integer in the given byte order. A read that
// yields zero bytes returns io.EOF; a partial value returns
// io.ErrUnexpectedEOF.
func ReadInt32(r io.Reader, order binary.ByteOrder) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(order.Uint32(buf[:])), nil
}

// ReadFloat32 reads one IEEE-754 single in the given byte order.
func ReadFloat32(r io.Reader, order binary.ByteOrder) (float32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(order.Uint32(buf[:])), nil
}

// ReadFloat64 reads one IEEE-754 double in the given byte order.
func ReadFloat64(r io.Reader, order binary.ByteOrder) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(order.Uint64(buf[:])), nil
}

// ParseDouble parses a float token tolerantly: surrounding whitespace is
// ignored and a comma decimal separator is accepted. Unparseable input
// yields 0, matching the tolerance of the source text formats.
func ParseDouble(tok string) float64 {
	tok = strings.TrimSpace(tok)
	if v, err := strconv.ParseFloat(tok, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", "."), 64); err == nil {
		return v
	}
	return 0
}

// ParseIndex parses a non-negative integer token tolerantly; unparseable or
// negative input yields 0.
func ParseIndex(tok string) int {
	v, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// FormatDouble renders a scalar for text output with shortest round-trip
// precision. Coordinates and data values share the one representation.
func FormatDouble(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
