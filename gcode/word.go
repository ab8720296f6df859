package gcode

import (
	"strconv"
	"strings"
)

// Precision is the number of decimal places numbers are rounded to when
// formatted.
const Precision = 4

type Word struct {
	W   byte
	Arg float64
}

func (w Word) IsAxis() bool {
	switch w.W {
	case 'X', 'Y', 'Z': // maybe someday 'A', 'B', 'C', 'U', 'V', 'W':
		return true
	}
	return false
}

// IsArcOffset reports if w is an arc center offset (I, J or K).
func (w Word) IsArcOffset() bool {
	switch w.W {
	case 'I', 'J', 'K':
		return true
	}
	return false
}

func (w Word) IsValid() bool {
	return w.W >= 'A' && w.W <= 'Z'
}

func formatFloat(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
	}
	s = strings.TrimRight(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// FormatNumber renders v with at most 4 decimal places and no trailing
// zeros or decimal point, e.g. 5 -> "5", -1.25 -> "-1.25", 0.00001 -> "0".
func FormatNumber(v float64) string {
	return formatFloat(v, Precision)
}

func (w Word) String() string {
	return string(w.W) + FormatNumber(w.Arg)
}
