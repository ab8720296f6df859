package meshlevel

import (
	"io"
	"math"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/gcode"
	"github.com/mastercactapus/cncutils/vm"
)

// MeshLeveler reads blocks from a gcode.Reader and adjusts their Z
// according to a ZOffsetter. Straight moves longer than the granularity are
// split so that the surface is followed between probe points.
type MeshLeveler struct {
	granularity float64
	offsetter   ZOffsetter

	buf  []gcode.Block
	bufN int

	splitVM *vm.Machine
	levelVM *vm.Machine

	gr gcode.Reader
}

type Config struct {
	ZOffsetter  ZOffsetter
	Granularity float64

	MPos, WCO coord.XYZ

	Reader gcode.Reader
}

func New(cfg Config) *MeshLeveler {
	l := &MeshLeveler{
		splitVM: vm.NewMachine(),
		levelVM: vm.NewMachine(),

		granularity: cfg.Granularity,
		gr:          cfg.Reader,

		offsetter: cfg.ZOffsetter,
	}
	if l.offsetter == nil {
		l.offsetter = dummyOffsetter{}
	}
	l.splitVM.SetMPos(cfg.MPos)
	l.levelVM.SetMPos(cfg.MPos)

	l.splitVM.SetWCO(cfg.WCO)
	l.levelVM.SetWCO(cfg.WCO)

	return l
}

// Level runs every block of prog through a MeshLeveler starting at the
// work origin. Comments are dropped.
func Level(prog gcode.Program, z ZOffsetter, granularity float64) (gcode.Program, error) {
	l := New(Config{
		ZOffsetter:  z,
		Granularity: granularity,
		Reader:      &gcode.BlocksReader{Blocks: prog.Blocks()},
	})

	var out gcode.Program
	for {
		b, err := l.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out.Add(b...)
	}
}

func (l *MeshLeveler) Read() (gcode.Block, error) {
	b, err := l.next()
	if err != nil {
		return nil, err
	}

	oldPos := l.levelVM.WPos()
	err = l.levelVM.Run(b)
	if err != nil {
		return nil, err
	}
	newPos := l.levelVM.WPos()
	if oldPos.Equal(newPos) {
		return b, nil
	}

	if !l.levelVM.RelativeMotion() {
		return l.levelAbsolute(b, newPos)
	}

	// no offset on either end leaves the block as-is
	ok, oldOffset := l.offsetter.OffsetZ(oldPos.X, oldPos.Y)
	if !ok {
		return b, nil
	}
	ok, newOffset := l.offsetter.OffsetZ(newPos.X, newPos.Y)
	if !ok {
		return b, nil
	}
	if oldOffset == newOffset {
		return b, nil
	}

	b = b.Clone()
	ok, z := b.Arg('Z')
	if !ok {
		b = append(b, gcode.Word{W: 'Z', Arg: newOffset - oldOffset})
	} else {
		b.SetArg('Z', z+(newOffset-oldOffset))
	}

	return b, nil
}

// levelAbsolute raises the programmed Z of an absolute move by the surface
// height at its end point.
func (l *MeshLeveler) levelAbsolute(b gcode.Block, newPos coord.XYZ) (gcode.Block, error) {
	ok, offset := l.offsetter.OffsetZ(newPos.X, newPos.Y)
	if !ok || offset == 0 {
		return b, nil
	}

	b = b.Clone()
	if ok, _ := b.Arg('Z'); ok {
		b.SetArg('Z', newPos.Z+offset)
	} else {
		b = append(b, gcode.Word{W: 'Z', Arg: newPos.Z + offset})
	}
	return b, nil
}

func (l *MeshLeveler) next() (gcode.Block, error) {
	if len(l.buf)-l.bufN > 0 {
		l.bufN++
		return l.buf[l.bufN-1], nil
	}
	l.buf = l.buf[:0]
	l.bufN = 0

	b, err := l.gr.Read()
	if err != nil {
		return nil, err
	}

	oldPos := l.splitVM.WPos()
	err = l.splitVM.Run(b)
	if err != nil {
		return nil, err
	}
	newPos := l.splitVM.WPos()
	if oldPos.Equal(newPos) {
		return b, nil
	}

	// arcs are only leveled at their end points
	if m := l.splitVM.Motion(); m == 2 || m == 3 {
		return b, nil
	}

	dist := oldPos.DistanceXY(newPos.X, newPos.Y)
	if dist <= l.granularity {
		return b, nil
	}

	n := int(math.Ceil(dist / l.granularity))
	distPoint := newPos.Sub(oldPos).Div(float64(n))

	if l.splitVM.RelativeMotion() {
		bl := b.Clone()
		bl.SetArg('X', distPoint.X)
		bl.SetArg('Y', distPoint.Y)
		bl.SetArg('Z', distPoint.Z)

		for i := 1; i <= n; i++ {
			l.buf = append(l.buf, bl)
		}
	} else {
		for i := 1; i <= n; i++ {
			bl := b.Clone()
			bl.SetArg('X', oldPos.X+distPoint.X*float64(i))
			bl.SetArg('Y', oldPos.Y+distPoint.Y*float64(i))
			bl.SetArg('Z', oldPos.Z+distPoint.Z*float64(i))

			l.buf = append(l.buf, bl)
		}
	}

	l.bufN = 1
	return l.buf[0], nil
}
