package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"time"

	gocode "github.com/joushou/gocnc/gcode"
	gocncvm "github.com/joushou/gocnc/vm"
	"github.com/mastercactapus/cncutils/bezier"
	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/gcode"
	"github.com/mastercactapus/cncutils/machine"
	"github.com/mastercactapus/cncutils/machine/grbl"
	"github.com/mastercactapus/cncutils/meshlevel"
	"github.com/mastercactapus/cncutils/toolpath"
	"github.com/tarm/serial"
)

type app struct {
	cfg        Config
	configPath string

	stdout io.Writer
}

// output handles the flags shared by every job command.
type output struct {
	a *app

	port  string
	baud  int
	level bool
	dump  bool
}

func (a *app) outputFlags(fs *flag.FlagSet) *output {
	o := &output{a: a}
	fs.StringVar(&o.port, "port", "", "Serial port of a grbl controller to stream the program to, instead of printing it.")
	fs.IntVar(&o.baud, "baud", a.cfg.Serial.Baud, "Serial baud rate.")
	fs.BoolVar(&o.level, "level", false, "Level the program using the probes in the config file.")
	fs.BoolVar(&o.dump, "dump", false, "Simulate the program and dump the resulting moves instead of printing it.")
	return o
}

func (o *output) emit(prog gcode.Program) error {
	var err error
	if o.level {
		prog, err = levelProgram(prog, o.a.cfg.Level)
		if err != nil {
			return err
		}
	}

	if o.dump {
		err = dump(prog)
		if err != nil {
			return err
		}
	}

	if o.port != "" {
		return withConn(o.port, o.baud, func(ctx context.Context, conn *grbl.Conn) error {
			return conn.Send(ctx, &gcode.BlocksReader{Blocks: prog.Blocks()})
		})
	}
	if o.dump {
		return nil
	}

	_, err = fmt.Fprintln(o.a.stdout, prog.String())
	return err
}

// withMode prefixes a generated program with the distance mode it expects,
// so that the printed program stands alone.
func withMode(mode float64) func(gcode.Program, error) (gcode.Program, error) {
	return func(prog gcode.Program, err error) (gcode.Program, error) {
		if err != nil {
			return nil, err
		}
		var g gcode.Program
		g.Add(gcode.Word{W: 'G', Arg: mode})
		g.Append(prog)
		return g, nil
	}
}

func levelProgram(prog gcode.Program, cfg LevelConfig) (gcode.Program, error) {
	if len(cfg.Probes) == 0 {
		return nil, errors.New("no probes in config, run the probe command first")
	}
	mesh, err := meshlevel.NewMesh(cfg.Probes)
	if err != nil {
		return nil, err
	}
	return meshlevel.Level(prog, mesh, cfg.Granularity)
}

func dump(prog gcode.Program) error {
	doc, err := gocode.Parse(prog.String())
	if err != nil {
		return err
	}

	var m gocncvm.Machine
	m.Init()
	err = m.Process(doc)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	m.Dump()
	return nil
}

// withConn opens a serial grbl connection for fn. Interrupting the process
// cancels the context.
func withConn(port string, baud int, fn func(context.Context, *grbl.Conn) error) error {
	s, err := serial.OpenPort(&serial.Config{Name: port, Baud: baud})
	if err != nil {
		return fmt.Errorf("open '%s': %w", port, err)
	}
	conn := grbl.NewConn(s)
	defer conn.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err = conn.WaitReset(ctx, 2*time.Second)
	if err != nil {
		return err
	}
	return fn(ctx, conn)
}

func (a *app) cherryMX(args []string) error {
	fs := flag.NewFlagSet("cherrymx", flag.ExitOnError)
	opt := a.cfg.CherryMX
	var rotate float64
	fs.Float64Var(&opt.Width, "width", opt.Width, "Width of the square switch hole.")
	fs.Float64Var(&opt.Depth, "depth", opt.Depth, "Depth to cut.")
	fs.Float64Var(&opt.NotchDepth, "notch-depth", opt.NotchDepth, "How far the notches reach past the hole.")
	fs.Float64Var(&opt.NotchHeight, "notch-height", opt.NotchHeight, "Distance from the corners to the notches.")
	fs.Float64Var(&rotate, "rotate", opt.Rotate*180/math.Pi, "Rotation of the hole in degrees.")
	fs.Float64Var(&opt.Pitch, "pitch", opt.Pitch, "Depth of each pass.")
	fs.Float64Var(&opt.FeedRate, "feed", opt.FeedRate, "Feed rate.")
	fs.Float64Var(&opt.PlungeRate, "plunge", opt.PlungeRate, "Plunge rate.")
	fs.Float64Var(&opt.Clearance, "clearance", opt.Clearance, "Height above the work surface to travel at.")
	fs.Float64Var(&opt.EndMill, "endmill", opt.EndMill, "End mill diameter.")
	fs.TextVar(&opt.Direction, "dir", opt.Direction, "Cut direction, cw or ccw.")
	fs.BoolVar(&opt.AntiBacklash, "anti-backlash", opt.AntiBacklash, "Drill every corner before profiling.")
	preamble := fs.Bool("preamble", true, "Start with G17 G21 and raise from the work surface to clearance.")
	out := a.outputFlags(fs)
	fs.Parse(args)

	opt.Rotate = rotate * math.Pi / 180
	prog, err := toolpath.CherryMX(opt)
	if err != nil {
		return err
	}
	if *preamble {
		pre, err := toolpath.Preamble(opt.Clearance)
		if err != nil {
			return err
		}
		pre.Append(prog)
		prog = pre
	}
	return out.emit(prog)
}

func (a *app) circle(args []string) error {
	fs := flag.NewFlagSet("circle", flag.ExitOnError)
	opt := a.cfg.Circle
	fs.Float64Var(&opt.Diameter, "diameter", opt.Diameter, "Diameter of the hole.")
	fs.Float64Var(&opt.Depth, "depth", opt.Depth, "Depth to cut.")
	fs.Float64Var(&opt.Pitch, "pitch", opt.Pitch, "Depth of each helix revolution.")
	fs.Float64Var(&opt.FeedRate, "feed", opt.FeedRate, "Feed rate.")
	fs.Float64Var(&opt.Offset, "offset", opt.Offset, "Tool offset from the profile, usually the end mill radius.")
	fs.TextVar(&opt.Direction, "dir", opt.Direction, "Cut direction, cw (inside) or ccw (outside).")
	fs.Float64Var(&opt.Roughing, "roughing", opt.Roughing, "Material left for a finishing pass.")
	fs.Float64Var(&opt.Clearance, "clearance", opt.Clearance, "Height above the work surface to travel at, with -at.")
	at := fs.String("at", "", "Centre 'x,y' to cut at in absolute coordinates, instead of at the current position.")
	out := a.outputFlags(fs)
	fs.Parse(args)

	var prog gcode.Program
	var err error
	if *at != "" {
		var c coord.Point
		c, err = parsePoint(*at)
		if err != nil {
			return err
		}
		prog, err = withMode(90)(toolpath.ProfileCircleAt(c, opt))
	} else {
		prog, err = withMode(91)(toolpath.ProfileCircle(opt))
	}
	if err != nil {
		return err
	}
	return out.emit(prog)
}

func (a *app) polygon(args []string) error {
	fs := flag.NewFlagSet("polygon", flag.ExitOnError)
	opt := a.cfg.Polygon
	fs.Float64Var(&opt.Depth, "depth", opt.Depth, "Depth to cut.")
	fs.Float64Var(&opt.Pitch, "pitch", opt.Pitch, "Depth of each pass.")
	fs.Float64Var(&opt.FeedRate, "feed", opt.FeedRate, "Feed rate.")
	fs.Float64Var(&opt.PlungeRate, "plunge", opt.PlungeRate, "Plunge rate.")
	fs.Float64Var(&opt.Clearance, "clearance", opt.Clearance, "Height above the work surface to travel at.")
	fs.BoolVar(&opt.AntiBacklash, "anti-backlash", opt.AntiBacklash, "Drill every corner before profiling.")
	points := fs.String("points", "", "Vertices 'x,y;x,y;...' relative to the current position.")
	out := a.outputFlags(fs)
	fs.Parse(args)

	pts, err := parsePoints(*points)
	if err != nil {
		return err
	}
	prog, err := withMode(91)(toolpath.ProfilePolygon(pts, opt))
	if err != nil {
		return err
	}
	return out.emit(prog)
}

func (a *app) drill(args []string) error {
	fs := flag.NewFlagSet("drill", flag.ExitOnError)
	opt := a.cfg.Drill
	fs.Float64Var(&opt.Depth, "depth", opt.Depth, "Depth to drill.")
	fs.Float64Var(&opt.PlungeRate, "plunge", opt.PlungeRate, "Plunge rate.")
	fs.Float64Var(&opt.Clearance, "clearance", opt.Clearance, "Height above the work surface to travel at.")
	points := fs.String("points", "", "Points 'x,y;x,y;...' to drill, or empty to drill in place.")
	absolute := fs.Bool("absolute", false, "Points are absolute work coordinates.")
	out := a.outputFlags(fs)
	fs.Parse(args)

	pts, err := parsePoints(*points)
	if err != nil {
		return err
	}

	var prog gcode.Program
	switch {
	case len(pts) == 0:
		prog, err = withMode(91)(toolpath.Drill(opt))
	case *absolute:
		prog, err = withMode(90)(toolpath.DrillAbsolute(pts, opt))
	default:
		prog, err = withMode(91)(toolpath.DrillPoints(pts, opt))
	}
	if err != nil {
		return err
	}
	return out.emit(prog)
}

func (a *app) curve(args []string) error {
	fs := flag.NewFlagSet("curve", flag.ExitOnError)
	opt := a.cfg.Curve
	fs.IntVar(&opt.Segments, "segments", opt.Segments, "Number of straight segments to approximate the curve with.")
	fs.Float64Var(&opt.FeedRate, "feed", opt.FeedRate, "Feed rate.")
	points := fs.String("points", "", "Bezier control points 'x,y;x,y;...' in absolute coordinates.")
	out := a.outputFlags(fs)
	fs.Parse(args)

	pts, err := parsePoints(*points)
	if err != nil {
		return err
	}
	prog, err := withMode(90)(toolpath.CurvePath(bezier.Curve(pts), opt.Segments, opt.FeedRate))
	if err != nil {
		return err
	}
	return out.emit(prog)
}

// probe runs a probe grid on the machine and stores the surface in the
// config file for -level. With -single it probes once at the work origin
// and prints the surface height instead.
func (a *app) probe(args []string) error {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	opt := a.cfg.Probe
	fs.Float64Var(&opt.DistanceX, "x", opt.DistanceX, "Width of the grid.")
	fs.Float64Var(&opt.DistanceY, "y", opt.DistanceY, "Height of the grid.")
	fs.Float64Var(&opt.Granularity, "granularity", opt.Granularity, "Max distance between probe points.")
	fs.Float64Var(&opt.FeedRate, "feed", opt.FeedRate, "Probe feed rate.")
	fs.Float64Var(&opt.MaxTravel, "max-travel", opt.MaxTravel, "How far below Z0 to search for the surface.")
	fs.Float64Var(&opt.Clearance, "clearance", opt.Clearance, "Height above Z0 to travel at.")
	port := fs.String("port", a.cfg.Serial.Port, "Serial port of the grbl controller.")
	baud := fs.Int("baud", a.cfg.Serial.Baud, "Serial baud rate.")
	single := fs.Bool("single", false, "Probe once at X0 Y0 and print the work Z of the surface.")
	fs.Parse(args)

	if *port == "" {
		return errors.New("-port is required")
	}
	if *single {
		return withConn(*port, *baud, func(ctx context.Context, conn *grbl.Conn) error {
			return a.probeSingle(ctx, conn, opt.ProbeOptions)
		})
	}
	prog, err := machine.ProbeGrid(opt)
	if err != nil {
		return err
	}

	var res []machine.ProbeResult
	err = withConn(*port, *baud, func(ctx context.Context, conn *grbl.Conn) error {
		conn.ResetProbes()
		err := conn.Send(ctx, &gcode.BlocksReader{Blocks: prog.Blocks()})
		res = conn.Probes()
		return err
	})
	if err != nil {
		return err
	}

	surface, err := machine.Surface(opt.GridPoints(), res)
	if err != nil {
		return err
	}
	log.Printf("probed %d points", len(surface))

	a.cfg.Level.Probes = surface
	return saveConfig(a.configPath, a.cfg)
}

type prober interface {
	ResetProbes()
	Send(context.Context, gcode.Reader) error
	Probes() []machine.ProbeResult
	QueryStatus(context.Context) (grbl.Status, error)
}

func (a *app) probeSingle(ctx context.Context, conn prober, opt machine.ProbeOptions) error {
	prog, err := machine.ProbeZ(opt)
	if err != nil {
		return err
	}

	conn.ResetProbes()
	err = conn.Send(ctx, &gcode.BlocksReader{Blocks: prog.Blocks()})
	if err != nil {
		return err
	}
	res := conn.Probes()
	if len(res) != 1 {
		return fmt.Errorf("%w: expected 1 result, got %d", machine.ErrProbeFailed, len(res))
	}
	if !res[0].Valid {
		return machine.ErrProbeFailed
	}

	st, err := conn.QueryStatus(ctx)
	if err != nil {
		return err
	}
	z := res[0].Z - st.WCO.Z
	_, err = fmt.Fprintf(a.stdout, "Z%s\n", gcode.FormatNumber(z))
	return err
}

// send streams a g-code file to the controller as-is.
func (a *app) send(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	port := fs.String("port", a.cfg.Serial.Port, "Serial port of the grbl controller.")
	baud := fs.Int("baud", a.cfg.Serial.Baud, "Serial baud rate.")
	fs.Parse(args)

	if *port == "" {
		return errors.New("-port is required")
	}
	if fs.NArg() != 1 {
		return errors.New("expected a single file to send")
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	return withConn(*port, *baud, func(ctx context.Context, conn *grbl.Conn) error {
		return sendFile(ctx, conn, f)
	})
}

// sendFile copies r to conn, closing conn if ctx ends first.
func sendFile(ctx context.Context, conn *grbl.Conn, r io.Reader) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	n, err := io.Copy(conn, r)
	log.Printf("sent %d bytes", n)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
