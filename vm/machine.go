// Package vm interprets g-code blocks, tracking where the tool ends up.
//
// It only follows end points: arcs move straight to their target as far as
// the position is concerned. That is enough to check that a generated
// program leaves the machine where it found it.
package vm

import (
	"errors"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/gcode"
)

// Move is a single position change recorded while running blocks.
type Move struct {
	// Motion is the active motion mode (0, 1, 2 or 3).
	Motion float64
	Feed   float64
	Pos    coord.XYZ
}

type Machine struct {
	pos coord.XYZ
	wco coord.XYZ

	modal [256]float64

	feed float64

	trace []Move
}

// NewMachine constructs a new Machine with default state.
func NewMachine() *Machine {
	m := &Machine{}

	// using grbl defaults
	m.modal[gcode.ModalGroupMotion] = 0
	m.modal[gcode.ModalGroupCoordinateSystem] = 54
	m.modal[gcode.ModalGroupPlaneSelection] = 17
	m.modal[gcode.ModalGroupDistanceMode] = 90
	m.modal[gcode.ModalGroupArcDistanceMode] = 91.1
	m.modal[gcode.ModalGroupFeedRateMode] = 94
	m.modal[gcode.ModalGroupUnits] = 21
	m.modal[gcode.ModalGroupCutterCompensationMode] = 40
	m.modal[gcode.ModalGroupToolLength] = 49
	m.modal[gcode.ModalGroupStopping] = 0
	m.modal[gcode.ModalGroupSpindle] = 5
	m.modal[gcode.ModalGroupCoolant] = 9

	return m
}

func (m Machine) Inches() bool         { return m.modal[gcode.ModalGroupUnits] == 20 }
func (m Machine) RelativeMotion() bool { return m.modal[gcode.ModalGroupDistanceMode] == 91 }

// Motion returns the active motion mode (0, 1, 2 or 3).
func (m Machine) Motion() float64 { return m.modal[gcode.ModalGroupMotion] }

// Plane returns the selected arc plane (17, 18 or 19).
func (m Machine) Plane() float64 { return m.modal[gcode.ModalGroupPlaneSelection] }

// Feed returns the last programmed feed rate.
func (m Machine) Feed() float64 { return m.feed }

func (m Machine) WPos() coord.XYZ {
	return m.pos.Sub(m.wco)
}
func (m Machine) MPos() coord.XYZ {
	return m.pos
}
func (m *Machine) SetMPos(p coord.XYZ) {
	m.pos = p
}
func (m *Machine) SetWCO(p coord.XYZ) {
	m.wco = p
}
func (m Machine) WCO() coord.XYZ {
	return m.wco
}

// Trace returns every move made so far, in work coordinates.
func (m Machine) Trace() []Move {
	return m.trace
}

func isSupported(g gcode.Word) bool {
	if g.IsAxis() || g.IsArcOffset() {
		return true
	}

	if g.W == 'G' {
		switch g.Arg {
		case 0, 1, 2, 3, 17, 53, 91, 90, 91.1, 20, 21, 94:
			return true
		}
	} else if g.W == 'F' {
		return true
	} else if g.W == 'M' {
		switch g.Arg {
		case 3, 5:
			return true
		}
	}

	return false
}

func applyBlock(p coord.XYZ, b gcode.Block, mul float64) coord.XYZ {
	for _, g := range b {
		switch g.W {
		case 'X':
			p.X = g.Arg * mul
		case 'Y':
			p.Y = g.Arg * mul
		case 'Z':
			p.Z = g.Arg * mul
		}
	}

	return p
}

func hasAxis(b gcode.Block) bool {
	for _, g := range b {
		if g.IsAxis() {
			return true
		}
	}
	return false
}

// Run will apply a single block.
func (m *Machine) Run(b gcode.Block) error {
	err := b.Validate()
	if err != nil {
		return err
	}
	var machineCoords bool
	for _, g := range b {
		if !isSupported(g) {
			return errors.New("unsupported code: " + g.String())
		}
		mg := g.ModalGroup()
		if mg != gcode.ModalGroupNone && mg != gcode.ModalGroupNonModal {
			m.modal[mg] = g.Arg
		}
		if g == (gcode.Word{W: 'G', Arg: 53.0}) {
			machineCoords = true
		}
		if g.W == 'F' {
			if g.Arg <= 0 {
				return errors.New("feed rate must be positive: " + g.String())
			}
			m.feed = g.Arg
		}
	}

	motion := m.modal[gcode.ModalGroupMotion]
	if (motion == 2 || motion == 3) && hasAxis(b) && m.Plane() != 17 {
		return errors.New("arcs are only supported in the XY plane")
	}

	args := b.Args()
	if !hasAxis(args) {
		return nil
	}
	if motion != 0 && m.feed == 0 {
		return errors.New("feed move without a feed rate: " + b.String())
	}

	mul := 1.0
	if m.Inches() {
		mul = 25.4
	}
	// apply motion
	if m.RelativeMotion() {
		m.pos = m.pos.Add(applyBlock(coord.XYZ{}, args, mul))
	} else if machineCoords {
		m.pos = applyBlock(m.pos, args, 1)
	} else {
		m.pos = applyBlock(m.WPos(), args, mul).Add(m.wco)
	}

	m.trace = append(m.trace, Move{Motion: motion, Feed: m.feed, Pos: m.WPos()})

	return nil
}

// RunProgram applies every block of p in order, skipping comments.
func (m *Machine) RunProgram(p gcode.Program) error {
	for _, b := range p.Blocks() {
		err := m.Run(b)
		if err != nil {
			return err
		}
	}
	return nil
}
