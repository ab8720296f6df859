package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_String(t *testing.T) {
	var p Program
	p.Add(Word{W: 'G', Arg: 17})
	p.Add(Word{W: 'G', Arg: 91}, Word{W: 'G', Arg: 0}, Word{W: 'Z', Arg: 5})
	p.Comment("drill0")
	p.Add(Word{W: 'G', Arg: 1}, Word{W: 'Z', Arg: -3.00004}, Word{W: 'F', Arg: 500})

	assert.Equal(t, "G17\nG91 G0 Z5\n(drill0)\nG1 Z-3 F500", p.String())
	assert.Len(t, p.Blocks(), 3)
}

func TestProgram_Comment(t *testing.T) {
	var p Program
	p.Comment("a (nested) note")
	assert.Equal(t, "(a [nested] note)", p.String())
}

func TestProgram_Append(t *testing.T) {
	var a, b Program
	a.Add(Word{W: 'G', Arg: 21})
	b.Add(Word{W: 'G', Arg: 90})
	b.Comment("end")
	a.Append(b)

	assert.Equal(t, "G21\nG90\n(end)", a.String())
	assert.Equal(t, "G90\n(end)", b.String())
}

func TestProgram_AddCopiesWords(t *testing.T) {
	words := []Word{{W: 'G', Arg: 0}, {W: 'X', Arg: 1}}
	var p Program
	p.Add(words...)
	words[1].Arg = 2
	assert.Equal(t, "G0 X1", p.String())
}
