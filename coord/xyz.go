package coord

import (
	"fmt"
	"math"
)

// XYZ is a position on a 3-axis machine.
type XYZ struct{ X, Y, Z float64 }

// XYZOf converts a 2 or 3-dimensional point. A missing Z is zero.
func XYZOf(p Point) (XYZ, error) {
	switch len(p) {
	case 2:
		return XYZ{X: p[0], Y: p[1]}, nil
	case 3:
		return XYZ{X: p[0], Y: p[1], Z: p[2]}, nil
	}
	return XYZ{}, fmt.Errorf("%w: %d-dimensional point is not a machine position", ErrDimensionMismatch, len(p))
}

// Point returns p as a 3-dimensional Point.
func (p XYZ) Point() Point { return Pt(p.X, p.Y, p.Z) }

func (p XYZ) Equal(b XYZ) bool {
	return p.X == b.X && p.Y == b.Y && p.Z == b.Z
}
func (p XYZ) Cross(op XYZ) XYZ {
	return XYZ{
		p.Y*op.Z - p.Z*op.Y,
		p.Z*op.X - p.X*op.Z,
		p.X*op.Y - p.Y*op.X,
	}
}
func (p XYZ) Dot(op XYZ) float64 {
	return p.X*op.X + p.Y*op.Y + p.Z*op.Z
}

func (p XYZ) Div(val float64) XYZ {
	p.X /= val
	p.Y /= val
	p.Z /= val
	return p
}

// Add will add the target values to p.
func (p XYZ) Add(target XYZ) XYZ {
	p.X += target.X
	p.Y += target.Y
	p.Z += target.Z
	return p
}

// Sub will subtract the target values from p.
func (p XYZ) Sub(target XYZ) XYZ {
	p.X -= target.X
	p.Y -= target.Y
	p.Z -= target.Z
	return p
}

// DistanceXY will return the 2D distance to p from (x,y).
func (p XYZ) DistanceXY(x, y float64) float64 {
	return math.Hypot(x-p.X, y-p.Y)
}
