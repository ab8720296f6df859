package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mastercactapus/cncutils/coord"
)

// parsePoint parses a comma separated list of coordinates, e.g. "1,2.5".
func parsePoint(s string) (coord.Point, error) {
	parts := strings.Split(s, ",")
	p := make(coord.Point, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point '%s': %w", s, err)
		}
		p[i] = v
	}
	return p, nil
}

// parsePoints parses semicolon separated points, e.g. "0,0;10,0;10,10".
func parsePoints(s string) ([]coord.Point, error) {
	var pts []coord.Point
	for _, str := range strings.Split(s, ";") {
		str = strings.TrimSpace(str)
		if str == "" {
			continue
		}
		p, err := parsePoint(str)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}
