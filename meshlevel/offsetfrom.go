package meshlevel

import (
	"github.com/mastercactapus/cncutils/coord"
)

// OffsetFrom returns points with z subtracted from their heights, making
// z the reference surface height.
func OffsetFrom(z float64, points []coord.XYZ) []coord.XYZ {
	p := make([]coord.XYZ, len(points))
	copy(p, points)

	for i := range p {
		p[i].Z -= z
	}
	return p
}
