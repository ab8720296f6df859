package gcode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:         "0",
		5:         "5",
		500:       "500",
		-3:        "-3",
		1.5:       "1.5",
		-7.25:     "-7.25",
		0.1:       "0.1",
		1.23456:   "1.2346",
		-1.23444:  "-1.2344",
		5.4999999: "5.5",
		0.00001:   "0",
		-0.00001:  "0",
		1000.0001: "1000.0001",
		350:       "350",
	}
	for v, exp := range cases {
		assert.Equal(t, exp, FormatNumber(v), "FormatNumber(%v)", v)
	}
	assert.Equal(t, "0", FormatNumber(math.Copysign(0, -1)))
}

func TestWord_String(t *testing.T) {
	assert.Equal(t, "G91", Word{W: 'G', Arg: 91}.String())
	assert.Equal(t, "G91.1", Word{W: 'G', Arg: 91.1}.String())
	assert.Equal(t, "Z-0.5", Word{W: 'Z', Arg: -0.5}.String())
	assert.Equal(t, "F350", Word{W: 'F', Arg: 350}.String())
}

func TestWord_Kinds(t *testing.T) {
	assert.True(t, Word{W: 'X'}.IsAxis())
	assert.False(t, Word{W: 'I'}.IsAxis())
	assert.True(t, Word{W: 'J'}.IsArcOffset())
	assert.False(t, Word{W: 'F'}.IsArcOffset())
	assert.False(t, Word{W: '('}.IsValid())
}
