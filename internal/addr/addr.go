// Package addr provides a 64-bit virtual address type with hex text/JSON
// codecs, used at the boundary between on-disk catalog formats and the
// translator's plain uint64 address space.
package addr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Addr is a 64-bit virtual address that round-trips through JSON and flag
// parsing as a "0x..." hex string.
type Addr uint64

// String returns the hexadecimal string representation of a.
func (a Addr) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}

// Set sets a to the value represented by s, accepting "0x" hex or decimal.
func (a *Addr) Set(s string) error {
	v, err := parseUint64(s)
	if err != nil {
		return errors.WithStack(err)
	}
	*a = Addr(v)
	return nil
}

// MarshalText returns the hexadecimal text representation of a.
func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a hexadecimal or decimal address from text.
func (a *Addr) UnmarshalText(text []byte) error {
	return a.Set(string(text))
}

// UnmarshalJSON parses an address encoded as a JSON string.
func (a *Addr) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.WithStack(err)
	}
	return a.Set(s)
}

// MarshalJSON encodes a as a JSON string.
func (a Addr) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

func parseUint64(s string) (uint64, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid address %q", s)
	}
	return v, nil
}
