package gcode

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_Read(t *testing.T) {
	blocks := []Block{
		{{W: 'G', Arg: 1}, {W: 'G', Arg: 2}},

		{{W: 'M', Arg: 2}},
	}

	gr := &BlocksReader{Blocks: blocks}

	b := NewBuffer(gr)

	buf := make([]byte, 10)
	n, err := b.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, []byte("G1 G2\nM2\n"), buf[:n])

	n, err = b.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 0, n)
}

func TestBuffer_Read_Short(t *testing.T) {
	gr := &BlocksReader{Blocks: MustParse("G91\nG0 X10 Y-2.5")}
	b := NewBuffer(gr)

	data, err := io.ReadAll(b)
	assert.NoError(t, err)
	assert.Equal(t, "G91\nG0 X10 Y-2.5\n", string(data))
}
