package toolpath

import (
	"fmt"
	"math"

	"github.com/mastercactapus/cncutils/coord"
)

// Direction is the direction the tool travels around a profile.
type Direction int

const (
	Clockwise Direction = iota
	CounterClockwise
)

// ParseDirection accepts "cw" or "ccw".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "cw":
		return Clockwise, nil
	case "ccw":
		return CounterClockwise, nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q, expected cw or ccw", coord.ErrDomain, s)
}

func (d Direction) String() string {
	if d == CounterClockwise {
		return "ccw"
	}
	return "cw"
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }
func (d *Direction) UnmarshalText(data []byte) error {
	v, err := ParseDirection(string(data))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Direction) validate() error {
	if d != Clockwise && d != CounterClockwise {
		return fmt.Errorf("%w: invalid direction %d", coord.ErrDomain, int(d))
	}
	return nil
}

// arcCode is G2 for clockwise and G3 for counter-clockwise arcs.
func (d Direction) arcCode() float64 {
	if d == CounterClockwise {
		return 3
	}
	return 2
}

func positive(name string, v float64) error {
	if !(v > 0) {
		return fmt.Errorf("%w: %s must be positive, got %g", coord.ErrDomain, name, v)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// DrillOptions configure plunging at one or more points.
type DrillOptions struct {
	// Depth below the work surface.
	Depth float64 `json:"depth" yaml:"depth"`

	PlungeRate float64 `json:"plungeRate" yaml:"plungeRate"`

	// Clearance is the height of the spindle above the work surface
	// between drills.
	Clearance float64 `json:"clearance" yaml:"clearance"`
}

func (opt DrillOptions) Validate() error {
	return firstErr(
		positive("depth", opt.Depth),
		positive("plunge rate", opt.PlungeRate),
		positive("clearance", opt.Clearance),
	)
}

// CircleOptions configure a helical circle profile.
type CircleOptions struct {
	Diameter float64 `json:"diameter" yaml:"diameter"`
	Depth    float64 `json:"depth" yaml:"depth"`

	// Pitch is the depth of a single helix turn.
	Pitch    float64 `json:"pitch" yaml:"pitch"`
	FeedRate float64 `json:"feedRate" yaml:"feedRate"`

	// Offset moves the path off the nominal circle. A positive offset is
	// always to the right of the direction of travel.
	Offset    float64   `json:"offset" yaml:"offset"`
	Direction Direction `json:"direction" yaml:"direction"`

	// Roughing is left as stock by the helix passes and removed by a final
	// finishing pass at the full radius.
	Roughing float64 `json:"roughing" yaml:"roughing"`

	// Clearance is only used by ProfileCircleAt.
	Clearance float64 `json:"clearance" yaml:"clearance"`
}

// Radius returns the radius of the finished path.
func (opt CircleOptions) Radius() float64 {
	if opt.Direction == CounterClockwise {
		return opt.Diameter/2 + opt.Offset
	}
	return opt.Diameter/2 - opt.Offset
}

func (opt CircleOptions) Validate() error {
	err := firstErr(
		positive("diameter", opt.Diameter),
		positive("depth", opt.Depth),
		positive("pitch", opt.Pitch),
		positive("feed rate", opt.FeedRate),
		opt.Direction.validate(),
	)
	if err != nil {
		return err
	}
	if !(opt.Roughing >= 0) {
		return fmt.Errorf("%w: roughing must not be negative, got %g", coord.ErrDomain, opt.Roughing)
	}
	if !(opt.Radius() > opt.Roughing) {
		return fmt.Errorf("%w: roughing %g must be less than radius %g", coord.ErrDomain, opt.Roughing, opt.Radius())
	}
	return nil
}

// PolygonOptions configure a polygon profile.
type PolygonOptions struct {
	Depth      float64 `json:"depth" yaml:"depth"`
	Pitch      float64 `json:"pitch" yaml:"pitch"`
	FeedRate   float64 `json:"feedRate" yaml:"feedRate"`
	PlungeRate float64 `json:"plungeRate" yaml:"plungeRate"`
	Clearance  float64 `json:"clearance" yaml:"clearance"`

	// AntiBacklash drills every vertex before profiling.
	AntiBacklash bool `json:"antiBacklash" yaml:"antiBacklash"`
}

func (opt PolygonOptions) Validate() error {
	return firstErr(
		positive("depth", opt.Depth),
		positive("pitch", opt.Pitch),
		positive("feed rate", opt.FeedRate),
		positive("plunge rate", opt.PlungeRate),
		positive("clearance", opt.Clearance),
	)
}

func (opt PolygonOptions) drill() DrillOptions {
	return DrillOptions{
		Depth:      opt.Depth,
		PlungeRate: opt.PlungeRate,
		Clearance:  opt.Clearance,
	}
}

// CherryMXOptions configure a Cherry MX switch hole.
type CherryMXOptions struct {
	// Width of the square hole.
	Width float64 `json:"width" yaml:"width"`
	Depth float64 `json:"depth" yaml:"depth"`

	// NotchDepth is how far the side notches reach past the hole.
	NotchDepth float64 `json:"notchDepth" yaml:"notchDepth"`

	// NotchHeight is the length of each notch along the side.
	NotchHeight float64 `json:"notchHeight" yaml:"notchHeight"`

	// Rotate turns the hole about its center, in radians.
	Rotate float64 `json:"rotate" yaml:"rotate"`

	Pitch      float64 `json:"pitch" yaml:"pitch"`
	FeedRate   float64 `json:"feedRate" yaml:"feedRate"`
	PlungeRate float64 `json:"plungeRate" yaml:"plungeRate"`
	Clearance  float64 `json:"clearance" yaml:"clearance"`

	// EndMill is the diameter of the cylindrical cutter. Zero generates
	// the bare outline.
	EndMill float64 `json:"endMill" yaml:"endMill"`

	Direction    Direction `json:"direction" yaml:"direction"`
	AntiBacklash bool      `json:"antiBacklash" yaml:"antiBacklash"`
}

// DefaultCherryMXOptions returns the settings used for a 1.5mm plate cut
// from 7mm stock with a 3mm end mill.
func DefaultCherryMXOptions() CherryMXOptions {
	return CherryMXOptions{
		Width:        13.5,
		Depth:        7,
		NotchDepth:   1.5,
		NotchHeight:  4,
		Pitch:        1,
		FeedRate:     500,
		PlungeRate:   500,
		Clearance:    5,
		EndMill:      3,
		Direction:    Clockwise,
		AntiBacklash: true,
	}
}

func (opt CherryMXOptions) Validate() error {
	err := firstErr(
		positive("width", opt.Width),
		positive("depth", opt.Depth),
		positive("pitch", opt.Pitch),
		positive("feed rate", opt.FeedRate),
		positive("plunge rate", opt.PlungeRate),
		positive("clearance", opt.Clearance),
		opt.Direction.validate(),
	)
	if err != nil {
		return err
	}
	switch {
	case !(opt.NotchDepth >= opt.EndMill/2):
		return fmt.Errorf("%w: notch depth %g is less than half the end mill diameter", coord.ErrDomain, opt.NotchDepth)
	case !(opt.NotchHeight >= opt.EndMill/2):
		return fmt.Errorf("%w: notch height %g is less than half the end mill diameter", coord.ErrDomain, opt.NotchHeight)
	case !(opt.EndMill < opt.Width):
		return fmt.Errorf("%w: end mill %g does not fit a %g wide hole", coord.ErrDomain, opt.EndMill, opt.Width)
	case !(math.Abs(opt.Rotate) <= 2*math.Pi):
		return fmt.Errorf("%w: rotation %g exceeds a full turn", coord.ErrDomain, opt.Rotate)
	}
	return nil
}

func (opt CherryMXOptions) polygon() PolygonOptions {
	return PolygonOptions{
		Depth:        opt.Depth,
		Pitch:        opt.Pitch,
		FeedRate:     opt.FeedRate,
		PlungeRate:   opt.PlungeRate,
		Clearance:    opt.Clearance,
		AntiBacklash: opt.AntiBacklash,
	}
}
