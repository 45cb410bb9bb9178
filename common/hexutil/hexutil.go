// Package hexutil implements hex encoding with 0x prefixes used by the
// JSON and text marshalling of Hash and Address values.
package hexutil

import (
	"encoding/hex"
	"errors"
	"fmt"
	"reflect"
)

const uintBits = 32 << (^uint(0) >> 63)

var (
	ErrEmptyString  = errors.New("empty hex string")
	ErrSyntax       = errors.New("invalid hex string")
	ErrMissingPrefix = errors.New("hex string without 0x prefix")
	ErrOddLength    = errors.New("hex string of odd length")
	ErrEmptyNumber  = errors.New("hex string \"0x\"")
	ErrLeadingZero  = errors.New("hex number with leading zero digits")
	ErrUint64Range  = errors.New("hex number > 64 bits")
	ErrUintRange    = fmt.Errorf("hex number > %d bits", uintBits)
	ErrBig256Range  = errors.New("hex number > 256 bits")
)

// Bytes marshals/unmarshals as a JSON string with 0x prefix.
type Bytes []byte

func (b Bytes) MarshalText() ([]byte, error) {
	result := make([]byte, len(b)*2+2)
	copy(result, "0x")
	hex.Encode(result[2:], b)
	return result, nil
}

func (b *Bytes) UnmarshalJSON(input []byte) error {
	if !isString(input) {
		return errors.New("hexutil.Bytes: not a string")
	}
	return b.UnmarshalText(input[1 : len(input)-1])
}

func (b *Bytes) UnmarshalText(input []byte) error {
	raw, err := checkText(input, true)
	if err != nil {
		return err
	}
	dec := make([]byte, len(raw)/2)
	if _, err = hex.Decode(dec, raw); err != nil {
		err = mapError(err)
	} else {
		*b = dec
	}
	return err
}

func (b Bytes) String() string {
	result, _ := b.MarshalText()
	return string(result)
}

// Encode encodes b as a hex string with a 0x prefix.
func Encode(b []byte) string {
	enc := make([]byte, len(b)*2+2)
	copy(enc, "0x")
	hex.Encode(enc[2:], b)
	return string(enc)
}

// Decode decodes a hex string with a 0x prefix.
func Decode(input string) ([]byte, error) {
	if len(input) == 0 {
		return nil, ErrEmptyString
	}
	if !has0xPrefix(input) {
		return nil, ErrMissingPrefix
	}
	b, err := hex.DecodeString(input[2:])
	if err != nil {
		err = mapError(err)
	}
	return b, err
}

func UnmarshalFixedJSON(typ reflect.Type, input, out []byte) error {
	if !isString(input) {
		return fmt.Errorf("non-string %v", typ)
	}
	return UnmarshalFixedText(typ.String(), input[1:len(input)-1], out)
}

func UnmarshalFixedText(typname string, input, out []byte) error {
	raw, err := checkText(input, true)
	if err != nil {
		return err
	}
	if len(raw)/2 != len(out) {
		return fmt.Errorf("hex string has length %d, want %d for %s", len(raw), len(out)*2, typname)
	}
	if _, err := hex.Decode(out, raw); err != nil {
		return mapError(err)
	}
	return nil
}

func UnmarshalFixedUnprefixedText(typname string, input, out []byte) error {
	raw, err := checkText(input, false)
	if err != nil {
		return err
	}
	if len(raw)/2 != len(out) {
		return fmt.Errorf("hex string has length %d, want %d for %s", len(raw), len(out)*2, typname)
	}
	if _, err := hex.Decode(out, raw); err != nil {
		return mapError(err)
	}
	return nil
}

func has0xPrefix(input string) bool {
	return len(input) >= 2 && input[0] == '0' && (input[1] == 'x' || input[1] == 'X')
}

func isString(input []byte) bool {
	return len(input) >= 2 && input[0] == '"' && input[len(input)-1] == '"'
}

func checkText(input []byte, wantPrefix bool) ([]byte, error) {
	if len(input) == 0 {
		return nil, nil
	}
	s := string(input)
	if has0xPrefix(s) {
		input = input[2:]
	} else if wantPrefix {
		return nil, ErrMissingPrefix
	}
	if len(input)%2 != 0 {
		return nil, ErrOddLength
	}
	return input, nil
}

func mapError(err error) error {
	if _, ok := err.(hex.InvalidByteError); ok {
		return ErrSyntax
	}
	if err == hex.ErrLength {
		return ErrOddLength
	}
	return err
}
