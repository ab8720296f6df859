package meshlevel

import (
	"errors"
	"io"
	"testing"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/gcode"
	"github.com/mastercactapus/cncutils/vm"
	"github.com/stretchr/testify/assert"
)

func TestMeshLeveler(t *testing.T) {
	// probes indicate a rise
	// of 30mm over 100mm or .3mmZ for every 1mm X
	probes := []coord.XYZ{
		{X: -700, Y: -450, Z: -80},
		{X: -700, Y: -550, Z: -80},

		{X: -600, Y: -450, Z: -50},
		{X: -600, Y: -550, Z: -50},
	}

	mesh, err := NewMesh(probes)
	assert.NoError(t, err)

	// the head floats above the bed, we only check that
	// moving to the right raises Z
	cfg := Config{
		ZOffsetter: mesh,

		MPos:        coord.XYZ{X: -650, Y: -500, Z: -60},
		WCO:         coord.XYZ{},
		Granularity: 1,

		Reader: &gcode.BlocksReader{Blocks: gcode.MustParse(`G91 G0 X3`)},
	}

	m := New(cfg)

	for i := 0; i < 3; i++ {
		b, err := m.Read()
		assert.NoError(t, err)
		assert.Equal(t, "G91 G0 X1 Z0.3", b.String())
	}

	_, err = m.Read()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestMeshLeveler_NoOffsetter(t *testing.T) {
	m := New(Config{
		Granularity: 1,
		Reader:      &gcode.BlocksReader{Blocks: gcode.MustParse("G91 G1 X2.5 F100")},
	})

	var got []string
	for {
		b, err := m.Read()
		if err == io.EOF {
			break
		}
		assert.NoError(t, err)
		got = append(got, b.String())
	}
	assert.Equal(t, []string{
		"G91 G1 X0.8333 F100",
		"G91 G1 X0.8333 F100",
		"G91 G1 X0.8333 F100",
	}, got)
}

type slope struct{}

// rises 0.1 per unit of Y, everywhere
func (slope) OffsetZ(x, y float64) (bool, float64) { return true, y / 10 }

func TestLevel_Relative(t *testing.T) {
	var p gcode.Program
	p.Add(gcode.Word{W: 'G', Arg: 91})
	p.Comment("square")
	p.Add(gcode.Word{W: 'G', Arg: 1}, gcode.Word{W: 'Y', Arg: 2}, gcode.Word{W: 'F', Arg: 100})
	p.Add(gcode.Word{W: 'G', Arg: 1}, gcode.Word{W: 'X', Arg: 2})
	p.Add(gcode.Word{W: 'G', Arg: 1}, gcode.Word{W: 'Y', Arg: -2}, gcode.Word{W: 'Z', Arg: -1})

	out, err := Level(p, slope{}, 1)
	assert.NoError(t, err)
	assert.Equal(t, "G91\n"+
		"G1 Y1 F100 Z0.1\n"+
		"G1 Y1 F100 Z0.1\n"+
		"G1 X1\n"+
		"G1 X1\n"+
		"G1 Y-1 Z-0.6\n"+
		"G1 Y-1 Z-0.6",
		out.String(),
	)

	// back at Y0 the surface is where it started
	m := vm.NewMachine()
	assert.NoError(t, m.RunProgram(out))
	assert.InDelta(t, 2, m.WPos().X, 1e-9)
	assert.InDelta(t, 0, m.WPos().Y, 1e-9)
	assert.InDelta(t, -1, m.WPos().Z, 1e-9)
}

func TestLevel_Absolute(t *testing.T) {
	var p gcode.Program
	p.Add(gcode.Word{W: 'G', Arg: 90}, gcode.Word{W: 'G', Arg: 0}, gcode.Word{W: 'X', Arg: 0}, gcode.Word{W: 'Y', Arg: 5})
	p.Add(gcode.Word{W: 'G', Arg: 1}, gcode.Word{W: 'Z', Arg: -1}, gcode.Word{W: 'F', Arg: 100})

	out, err := Level(p, slope{}, 10)
	assert.NoError(t, err)
	assert.Equal(t, "G90 G0 X0 Y5 Z0.5\nG1 Z-0.5 F100", out.String())
}

func TestNewMesh(t *testing.T) {
	_, err := NewMesh([]coord.XYZ{{}, {X: 1}})
	assert.True(t, errors.Is(err, coord.ErrEmptyInput))

	mesh, err := NewMesh(OffsetFrom(1, []coord.XYZ{
		{X: 0, Y: 0, Z: 1},
		{X: 10, Y: 0, Z: 2},
		{X: 0, Y: 10, Z: 1},
		{X: 10, Y: 10, Z: 2},
	}))
	assert.NoError(t, err)

	ok, z := mesh.OffsetZ(5, 5)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, z, 1e-9)

	ok, _ = mesh.OffsetZ(11, 5)
	assert.False(t, ok)
}
