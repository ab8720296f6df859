package main

import (
	"testing"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/stretchr/testify/assert"
)

func TestParsePoints(t *testing.T) {
	pts, err := parsePoints("0,0; 10,0;10, 10.5;")
	assert.NoError(t, err)
	assert.Equal(t, []coord.Point{{0, 0}, {10, 0}, {10, 10.5}}, pts)

	pts, err = parsePoints("")
	assert.NoError(t, err)
	assert.Empty(t, pts)

	_, err = parsePoints("0,0;1,x")
	assert.Error(t, err)
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("1,-2,3")
	assert.NoError(t, err)
	assert.Equal(t, coord.Pt(1, -2, 3), p)
}
