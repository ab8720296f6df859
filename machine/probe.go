// Package machine generates the controller-side programs that do not cut
// anything: surface probing for mesh leveling.
package machine

import (
	"errors"
	"fmt"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/gcode"
)

// ErrProbeFailed is returned when a probe never made contact.
var ErrProbeFailed = errors.New("probe failed")

// ProbeResult is a probe contact reported by the controller, in machine
// coordinates.
type ProbeResult struct {
	coord.XYZ
	Valid bool
}

// ProbeOptions configure a straight z-probe operation.
type ProbeOptions struct {
	FeedRate float64 `json:"feedRate" yaml:"feedRate"`

	// MaxTravel is how far below Z0 the probe may search.
	MaxTravel float64 `json:"maxTravel" yaml:"maxTravel"`

	// Clearance is the work Z height used to travel between probe points.
	Clearance float64 `json:"clearance" yaml:"clearance"`
}

func (opt ProbeOptions) Validate() error {
	switch {
	case opt.FeedRate <= 0:
		return fmt.Errorf("%w: probe feed rate must be positive", coord.ErrDomain)
	case opt.MaxTravel <= 0:
		return fmt.Errorf("%w: probe max travel must be positive", coord.ErrDomain)
	case opt.Clearance <= 0:
		return fmt.Errorf("%w: probe clearance must be positive", coord.ErrDomain)
	}
	return nil
}

// probeCommand appends a probe at the current XY followed by a lift back to
// clearance height. The program must be in absolute mode.
func (opt ProbeOptions) probeCommand(p *gcode.Program) {
	p.Add(
		gcode.Word{W: 'G', Arg: 38.2},
		gcode.Word{W: 'Z', Arg: -opt.MaxTravel},
		gcode.Word{W: 'F', Arg: opt.FeedRate},
	)
	p.Add(gcode.Word{W: 'G', Arg: 0}, gcode.Word{W: 'Z', Arg: opt.Clearance})
}

// ProbeZ returns a program probing once at the work origin.
func ProbeZ(opt ProbeOptions) (gcode.Program, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	var p gcode.Program
	p.Add(gcode.Word{W: 'G', Arg: 90}, gcode.Word{W: 'G', Arg: 0}, gcode.Word{W: 'Z', Arg: opt.Clearance})
	p.Add(gcode.Word{W: 'G', Arg: 0}, gcode.Word{W: 'X', Arg: 0}, gcode.Word{W: 'Y', Arg: 0})
	opt.probeCommand(&p)
	return p, nil
}

// Surface pairs probe results with the work XY they were taken at, in
// order. Heights are relative to the first probe.
func Surface(points []coord.Point, results []ProbeResult) ([]coord.XYZ, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no probe points", coord.ErrEmptyInput)
	}
	if len(points) != len(results) {
		return nil, fmt.Errorf("%w: %d probe points but %d results", coord.ErrDimensionMismatch, len(points), len(results))
	}

	surface := make([]coord.XYZ, len(points))
	for i, r := range results {
		if !r.Valid {
			return nil, fmt.Errorf("%w: no contact at %s", ErrProbeFailed, points[i])
		}
		p, err := coord.XYZOf(points[i])
		if err != nil {
			return nil, err
		}
		p.Z = r.Z - results[0].Z
		surface[i] = p
	}
	return surface, nil
}
