// Package grbl streams g-code to a grbl controller.
package grbl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mastercactapus/cncutils/gcode"
	"github.com/mastercactapus/cncutils/machine"
)

// bufferSize is the size of the grbl serial receive buffer.
const bufferSize = 128

var (
	// ErrGrblReset will be returned from write methods if a reset is encountered
	// before all commands are run.
	ErrGrblReset = errors.New("grbl reset")

	// ErrCommand wraps an `error:` response to a sent line.
	ErrCommand = errors.New("grbl command error")

	// ErrLineTooLong is returned for a line that can never fit the receive buffer.
	ErrLineTooLong = errors.New("line exceeds grbl buffer")
)

// Conn represents a direct connection to a Grbl controller.
//
// Lines are sent using character counting: as many lines are kept in flight
// as fit in the controller's receive buffer, and each `ok` or `error:`
// frees the oldest one.
type Conn struct {
	rw io.ReadWriter

	ackCh    chan error
	resetCh  chan struct{}
	statusCh chan struct{}
	closeCh  chan struct{}
	doneCh   chan struct{}

	closeOnce sync.Once

	mx  sync.Mutex
	wMx sync.Mutex

	deviceBuf int
	lineSize  []int

	stMx   sync.Mutex
	status Status
	probes []machine.ProbeResult
}

// NewConn creates a new Conn using the provided ReadWriter for data, and
// starts reading responses from it.
func NewConn(rw io.ReadWriter) *Conn {
	c := &Conn{
		rw:       rw,
		ackCh:    make(chan error, bufferSize),
		resetCh:  make(chan struct{}, 1),
		statusCh: make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Close will abort any in-progress writes and close the
// underlying ReadWriter, if it implements io.Closer.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		if closer, ok := c.rw.(io.Closer); ok {
			err = closer.Close()
		}
	})
	return err
}

// WaitReset waits up to d for the controller's startup banner, as sent after
// a reset or when opening the port resets the board.
func (c *Conn) WaitReset(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-c.resetCh:
	case <-t.C:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.doneCh:
		return io.ErrUnexpectedEOF
	}
	return nil
}

// Status returns the last status report.
func (c *Conn) Status() Status {
	c.stMx.Lock()
	defer c.stMx.Unlock()
	return c.status
}

// QueryStatus requests a status report and waits for it to arrive.
func (c *Conn) QueryStatus(ctx context.Context) (Status, error) {
	select {
	case <-c.statusCh:
	default:
	}

	err := c.WriteByte('?')
	if err != nil {
		return Status{}, err
	}

	select {
	case <-c.statusCh:
		return c.Status(), nil
	case <-ctx.Done():
		return Status{}, ctx.Err()
	case <-c.closeCh:
		return Status{}, io.ErrClosedPipe
	case <-c.doneCh:
		return Status{}, io.ErrUnexpectedEOF
	}
}

// Probes returns every probe result received since the last ResetProbes.
func (c *Conn) Probes() []machine.ProbeResult {
	c.stMx.Lock()
	defer c.stMx.Unlock()
	res := make([]machine.ProbeResult, len(c.probes))
	copy(res, c.probes)
	return res
}

func (c *Conn) ResetProbes() {
	c.stMx.Lock()
	c.probes = nil
	c.stMx.Unlock()
}

func (c *Conn) readLoop() {
	defer close(c.doneCh)

	scan := bufio.NewScanner(c.rw)
	for scan.Scan() {
		c.handleLine(strings.TrimSpace(scan.Text()))
	}
	select {
	case <-c.closeCh:
	default:
		if err := scan.Err(); err != nil {
			log.Println("ERROR: read from port:", err)
		}
	}
}

func (c *Conn) handleLine(line string) {
	switch {
	case line == "":
	case line == "ok":
		c.ack(nil)
	case strings.HasPrefix(line, "error:"):
		c.ack(fmt.Errorf("%w: %s", ErrCommand, line))
	case strings.HasPrefix(line, "Grbl"):
		select {
		case c.resetCh <- struct{}{}:
		default:
		}
	case strings.HasPrefix(line, "<"):
		c.stMx.Lock()
		stat, err := parseStatus(c.status, line)
		if err == nil {
			c.status = *stat
		}
		c.stMx.Unlock()
		if err != nil {
			log.Println("ERROR: parse status:", err)
			return
		}
		select {
		case c.statusCh <- struct{}{}:
		default:
		}
	case strings.HasPrefix(line, "[PRB:"):
		prb, err := parseProbe(line)
		if err != nil {
			log.Println("ERROR: parse:", err)
			return
		}
		c.stMx.Lock()
		c.probes = append(c.probes, *prb)
		c.stMx.Unlock()
	case strings.HasPrefix(line, "ALARM:"):
		log.Println("ERROR: grbl", line)
	default:
		log.Println("grbl:", line)
	}
}

func (c *Conn) ack(err error) {
	select {
	case c.ackCh <- err:
	default:
		log.Println("ERROR: too many unexpected responses, dropping")
	}
}

// drain discards acknowledgements nothing is waiting for.
func (c *Conn) drain() {
	for {
		select {
		case <-c.ackCh:
		default:
			return
		}
	}
}

func (c *Conn) recordBufferSpace(n int) {
	c.deviceBuf += n
	c.lineSize = append(c.lineSize, n)
}

// next waits for the oldest line in flight to be acknowledged.
func (c *Conn) next(ctx context.Context) error {
	select {
	case <-c.closeCh:
		return io.ErrClosedPipe
	case <-c.doneCh:
		return io.ErrUnexpectedEOF
	case <-ctx.Done():
		return ctx.Err()
	case <-c.resetCh:
		c.deviceBuf = 0
		c.lineSize = nil
		return ErrGrblReset
	case e := <-c.ackCh:
		if len(c.lineSize) > 0 {
			c.deviceBuf -= c.lineSize[0]
			c.lineSize = c.lineSize[1:]
		}
		return e
	}
}

// writeLine will block until line has been written to the serial device in full.
func (c *Conn) writeLine(ctx context.Context, line []byte) error {
	if len(line) > bufferSize {
		return fmt.Errorf("%w: %d bytes", ErrLineTooLong, len(line))
	}
	for c.deviceBuf+len(line) > bufferSize {
		err := c.next(ctx)
		if err != nil {
			return err
		}
	}

	c.mx.Lock()
	_, err := c.rw.Write(line)
	c.mx.Unlock()
	if err != nil {
		return err
	}
	c.recordBufferSpace(len(line))
	return nil
}

// wait blocks until every line in flight is acknowledged, returning the first
// error seen.
func (c *Conn) wait(ctx context.Context, err error) error {
	for len(c.lineSize) > 0 {
		e := c.next(ctx)
		if errors.Is(e, ErrCommand) {
			if err == nil {
				err = e
			}
			continue
		}
		if e != nil {
			return e
		}
	}
	return err
}

func splitLinesKeepN(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), append(data, '\n'), nil
	}
	return 0, nil, nil
}

// ReadFrom sends every line of r and returns after all of them have been
// executed. Once the controller rejects a line nothing more is sent, but
// lines already in flight still run.
func (c *Conn) ReadFrom(r io.Reader) (n int64, err error) {
	return c.stream(context.Background(), r)
}

// Send streams blocks from r until io.EOF and returns after all of them have
// been executed.
func (c *Conn) Send(ctx context.Context, r gcode.Reader) error {
	_, err := c.stream(ctx, gcode.NewBuffer(r))
	return err
}

func (c *Conn) stream(ctx context.Context, r io.Reader) (n int64, err error) {
	c.wMx.Lock()
	defer c.wMx.Unlock()
	select {
	case <-c.closeCh:
		return 0, io.ErrClosedPipe
	default:
	}

	c.deviceBuf = 0
	c.lineSize = nil
	c.drain()

	scanner := bufio.NewScanner(r)
	scanner.Split(splitLinesKeepN)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		err = c.writeLine(ctx, line)
		if errors.Is(err, ErrCommand) || errors.Is(err, ErrLineTooLong) {
			return n, c.wait(ctx, err)
		}
		if err != nil {
			return n, err
		}
		n += int64(len(line))
	}
	if err := scanner.Err(); err != nil {
		return n, c.wait(ctx, err)
	}

	return n, c.wait(ctx, nil)
}

// Write will return after all lines have been sent and executed.
func (c *Conn) Write(p []byte) (int, error) {
	n, err := c.ReadFrom(bytes.NewReader(p))
	return int(n), err
}

// WriteByte will write directly to the serial device without
// accounting for buffering.
//
// Use for realtime commands like `?`.
func (c *Conn) WriteByte(p byte) (err error) {
	select {
	case <-c.closeCh:
		return io.ErrClosedPipe
	default:
	}
	c.mx.Lock()
	_, err = c.rw.Write([]byte{p})
	c.mx.Unlock()
	return err
}
