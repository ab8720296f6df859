package grbl

import (
	"testing"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	prev := Status{WCO: coord.XYZ{X: 1, Y: 2, Z: 3}}
	s, err := parseStatus(prev, "<Idle|MPos:-10.000,-20.500,-3.000|FS:0,0>\r\n")
	assert.NoError(t, err)
	assert.Equal(t, "Idle", s.State)
	assert.Equal(t, coord.XYZ{X: -10, Y: -20.5, Z: -3}, s.MPos)
	assert.Equal(t, coord.XYZ{X: 1, Y: 2, Z: 3}, s.WCO)
	assert.Equal(t, coord.XYZ{X: -11, Y: -22.5, Z: -6}, s.WPos())

	s, err = parseStatus(*s, "<Run|MPos:0.000,0.000,0.000|FS:500,0|WCO:0.000,0.000,-1.000>")
	assert.NoError(t, err)
	assert.Equal(t, "Run", s.State)
	assert.Equal(t, coord.XYZ{Z: -1}, s.WCO)

	_, err = parseStatus(prev, "<Idle|MPos:1,2>")
	assert.Error(t, err)
}

func TestParseProbe(t *testing.T) {
	p, err := parseProbe("[PRB:-5.000,-10.000,-2.250:1]")
	assert.NoError(t, err)
	assert.True(t, p.Valid)
	assert.Equal(t, coord.XYZ{X: -5, Y: -10, Z: -2.25}, p.XYZ)

	p, err = parseProbe("[PRB:0.000,0.000,0.000:0]")
	assert.NoError(t, err)
	assert.False(t, p.Valid)

	_, err = parseProbe("[MSG:Caution: Unlocked]")
	assert.Error(t, err)
}
