package grbl

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/machine"
)

// Status is the last status report received from the controller.
type Status struct {
	State string
	MPos  coord.XYZ
	WCO   coord.XYZ
}

// WPos returns the work position of the report.
func (s Status) WPos() coord.XYZ { return s.MPos.Sub(s.WCO) }

func parseCoords(data string) (p coord.XYZ, err error) {
	parts := strings.Split(data, ",")
	if len(parts) < 3 {
		return p, errors.New("invalid number of elements")
	}
	p.X, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return p, err
	}
	p.Y, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return p, err
	}
	p.Z, err = strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return p, err
	}
	return p, nil
}

func parseProbe(data string) (*machine.ProbeResult, error) {
	data = strings.TrimSpace(data)
	data = strings.TrimPrefix(data, "[")
	data = strings.TrimSuffix(data, "]")
	parts := strings.Split(data, ":")
	if parts[0] != "PRB" || len(parts) != 3 {
		return nil, errors.New("unknown PUSH message: " + data)
	}

	var res machine.ProbeResult
	var err error
	res.Valid = parts[2] == "1"
	res.XYZ, err = parseCoords(parts[1])
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// parseStatus applies a status report to the previous one. Fields missing
// from the report keep their previous value.
func parseStatus(stat Status, data string) (*Status, error) {
	data = strings.TrimSpace(data)
	data = strings.TrimPrefix(data, "<")
	data = strings.TrimSuffix(data, ">")
	parts := strings.Split(data, "|")
	stat.State = parts[0]
	var err error
	for _, s := range parts[1:] {
		sParts := strings.SplitN(s, ":", 2)
		if len(sParts) != 2 {
			continue
		}
		switch sParts[0] {
		case "MPos":
			stat.MPos, err = parseCoords(sParts[1])
		case "WCO":
			stat.WCO, err = parseCoords(sParts[1])
		}
		if err != nil {
			return nil, err
		}
	}
	return &stat, nil
}
