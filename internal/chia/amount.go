package chia

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"moff.io/chia-walletconnect/pkg/errors"
)

// Amount is a quantity in mojos (or the asset's smallest unit). The wallet
// accepts it either as a JSON number or as a decimal string; Amount keeps the
// caller's choice on the wire. The zero value is unset and encodes as null, so
// a required amount left unset is rejected before sending.
type Amount struct {
	text   string
	quoted bool
}

// Mojos returns a numeric amount.
func Mojos(n uint64) Amount {
	return Amount{text: strconv.FormatUint(n, 10)}
}

// DecimalString returns an amount sent as a JSON string, for values that do
// not fit a float64 without loss. s must be a non-negative decimal such as
// "1000" or "0.5"; anything else fails at encoding time.
func DecimalString(s string) Amount {
	return Amount{text: s, quoted: true}
}

var decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

func validDecimal(s string) error {
	if !decimalPattern.MatchString(s) {
		return errors.Errorf("invalid decimal amount %q", s)
	}
	return nil
}

// ParseAmount parses a non-negative decimal number typed by a user into a
// numeric amount. Empty input yields the zero amount.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, nil
	}
	if err := validNumber(s); err != nil {
		return Amount{}, err
	}
	return Amount{text: s}, nil
}

func validNumber(s string) error {
	var f float64
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return errors.Errorf("invalid amount %q", s)
	}
	if f < 0 {
		return errors.Errorf("amount must not be negative: %q", s)
	}
	return nil
}

// IsSet reports whether the amount was given at all; Mojos(0) is set.
func (a Amount) IsSet() bool {
	return a.text != ""
}

// IsZero reports whether the amount is unset or numerically zero.
func (a Amount) IsZero() bool {
	if a.text == "" {
		return true
	}
	f, err := strconv.ParseFloat(a.text, 64)
	return err == nil && f == 0
}

// Quoted reports whether the amount is sent as a JSON string.
func (a Amount) Quoted() bool {
	return a.quoted
}

func (a Amount) String() string {
	if a.text == "" {
		return "0"
	}
	return a.text
}

func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case a.text == "":
		return []byte("null"), nil
	case a.quoted:
		if err := validDecimal(a.text); err != nil {
			return nil, err
		}
		return json.Marshal(a.text)
	}
	return []byte(a.text), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decode amount string")
		}
		if err := validDecimal(s); err != nil {
			return err
		}
		*a = DecimalString(s)
		return nil
	}
	if err := validNumber(string(data)); err != nil {
		return err
	}
	*a = Amount{text: string(data)}
	return nil
}
