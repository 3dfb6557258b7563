// Package input turns the raw text a user typed into solver arguments.
// Its failures are a separate class from solver errors: a malformed number
// never reaches the solver.
package input

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DefaultFormula is the display name used when no acid formula is given.
const DefaultFormula = "HA"

// MaxFormulaLength bounds the display name, in characters.
const MaxFormulaLength = 32

// MaxNumberLength bounds a numeric field, in bytes after trimming.
const MaxNumberLength = 64

// Decimal magnitudes (exponent plus coefficient digits) outside this window
// cannot be a finite, non-zero float64. Checking first keeps the conversion
// from expanding a huge power of ten.
const (
	minMagnitude = -330
	maxMagnitude = 310
)

var (
	ErrMalformedNumber = errors.New("invalid input, please ensure concentration and Ka are valid numbers")
	ErrFormulaTooLong  = fmt.Errorf("acid formula is longer than %d characters", MaxFormulaLength)

	errOutOfRange = errors.New("out of range")
)

// MalformedNumberError reports which field could not be parsed.
type MalformedNumberError struct {
	Field string
	Raw   string
	Err   error
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid number", e.Field, e.Raw)
}

func (e *MalformedNumberError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedNumber}
	}
	return []error{ErrMalformedNumber, e.Err}
}

// ParseNumber parses decimal or scientific notation ("0.10", "1.8e-5").
// NaN, Inf, overlong text and values outside float64 range are rejected.
// Sign is not checked here; that is the solver's validation.
func ParseNumber(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &MalformedNumberError{Field: field, Raw: raw}
	}
	if len(s) > MaxNumberLength {
		return 0, &MalformedNumberError{Field: field, Raw: raw, Err: errors.New("too long")}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, &MalformedNumberError{Field: field, Raw: raw, Err: err}
	}
	if d.IsZero() {
		return 0, nil
	}

	magnitude := int64(d.Exponent()) + int64(len(d.Abs().Coefficient().String()))
	if magnitude < minMagnitude || magnitude > maxMagnitude {
		return 0, &MalformedNumberError{Field: field, Raw: raw, Err: errOutOfRange}
	}

	f, _ := d.Float64()
	if f == 0 || math.IsInf(f, 0) {
		return 0, &MalformedNumberError{Field: field, Raw: raw, Err: errOutOfRange}
	}
	return f, nil
}

// ParsePair parses the initial concentration and Ka fields.
func ParsePair(concentration, ka string) (float64, float64, error) {
	c0, err := ParseNumber("concentration", concentration)
	if err != nil {
		return 0, 0, err
	}

	k, err := ParseNumber("ka", ka)
	if err != nil {
		return 0, 0, err
	}
	return c0, k, nil
}

// Formula returns the trimmed display name, DefaultFormula if blank.
func Formula(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DefaultFormula, nil
	}
	if utf8.RuneCountInString(s) > MaxFormulaLength {
		return "", ErrFormulaTooLong
	}
	return s, nil
}
