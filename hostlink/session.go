// Package hostlink implements the host-side half of the tunnel: the
// Host Transport Facade that chunks a byte stream into application
// requests, the session state that tracks sequence numbers and a
// radio's learned address, and the AT command sequencing used to
// configure the local and remote radios.
package hostlink

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aprice/xbeeboot/serial"
	"github.com/aprice/xbeeboot/xbee"
)

// resetPulseLow/resetPulseHigh are the reset-pulse durations Open drives
// the DTR/RTS line for (250 ms low, 50 ms high). Variables rather than
// constants so tests can shorten them instead of actually sleeping.
var (
	resetPulseLow  = 250 * time.Millisecond
	resetPulseHigh = 50 * time.Millisecond
)

// Retry budgets. The original dispatcher this is modeled on polls some
// of these (remote AT, recv) in an effectively unbounded loop bounded
// only by the operator's patience; this implementation caps all of them
// so a dead link returns ErrLinkDown instead of hanging forever, which
// the spec's Non-goals leave as an implementation's choice (permanent
// link loss recovery is explicitly out of scope either way).
const (
	localATRetries  = 5
	remoteATRetries = 30
	recvRetries     = 30
	sendRetries     = 50
)

// ErrLinkDown is returned once a retry budget is exhausted without a
// matching response.
var ErrLinkDown = errors.New("hostlink: no response from radio link")

// errDirectNoRadio is returned by operations that only make sense
// against an adjacent local radio (diagnostics) when the session is a
// direct, wireless-free connection.
var errDirectNoRadio = errors.New("hostlink: no local radio to query in direct mode")

// pendingBufferSize is the receive reassembly buffer's fixed capacity.
const pendingBufferSize = 256

// ErrBufferOverrun is the value Host panics with when a reassembled
// reply would overflow the fixed-size reassembly buffer. dispatch
// accepts every in-sequence reply chunk whether or not Recv drains
// them, so a caller that keeps sending without calling Recv reaches
// this; it is a loud failure rather than silent data loss.
var ErrBufferOverrun = errors.New("hostlink: reassembly buffer overrun")

// pendingRing is the host's receive reassembly buffer (§3): a 256-byte
// circular buffer with inIndex/outIndex cursors, where inIndex==outIndex
// means empty unless full is set. write panics with ErrBufferOverrun rather than growing
// past capacity or quietly dropping bytes.
type pendingRing struct {
	buf      [pendingBufferSize]byte
	inIndex  int
	outIndex int
	full     bool
}

func (r *pendingRing) len() int {
	switch {
	case r.full:
		return pendingBufferSize
	case r.inIndex >= r.outIndex:
		return r.inIndex - r.outIndex
	default:
		return pendingBufferSize - r.outIndex + r.inIndex
	}
}

func (r *pendingRing) write(data []byte) {
	for _, b := range data {
		if r.full {
			panic(ErrBufferOverrun)
		}
		r.buf[r.inIndex] = b
		r.inIndex = (r.inIndex + 1) % pendingBufferSize
		r.full = r.inIndex == r.outIndex
	}
}

func (r *pendingRing) read(dst []byte) int {
	n := 0
	for n < len(dst) && (r.full || r.inIndex != r.outIndex) {
		dst[n] = r.buf[r.outIndex]
		r.outIndex = (r.outIndex + 1) % pendingBufferSize
		r.full = false
		n++
	}
	return n
}

func (r *pendingRing) reset() {
	*r = pendingRing{}
}

// Host is a single tunnel session bound to one open serial connection.
// It is not safe for concurrent use: Send/Recv/Drain/SetDTRRTS/Close all
// block the calling goroutine and there is no background reader (spec
// §5 single-threaded cooperative model).
type Host struct {
	conn   io.ReadWriteCloser
	reader *xbee.Reader

	addr xbee.Address

	frameID byte // envelope frame sequence for AT commands and Transmit Requests
	outSeq  byte // application-layer outbound sequence
	inSeq   byte // application-layer inbound sequence; 0 = none accepted yet

	pending pendingRing // reassembled bytes not yet drained by Recv
}

// Open brings up a session against addr over conn. After opening the
// serial port and before any AT sequencing, it drives a reset pulse
// (DTR/RTS low 250ms then high 50ms) unconditionally, direct or OTA,
// using toggle if supplied or serial.ToggleDTRRTS otherwise; a pulse
// the toggle hook can't perform is logged, not fatal, since real
// DTR/RTS wiring is a platform/cable matter external to this package.
// For an over-the-air session it then puts the local radio into
// escaped API mode and disables the remote radio's RTS flow control
// pin, mirroring the sequence the bootloader's host tool performs
// before touching the target; a direct (wired) session skips both,
// since there is no adjacent radio to configure.
func Open(conn io.ReadWriteCloser, addr xbee.Address, toggle func(on bool) error) (*Host, error) {
	h := &Host{
		conn:   conn,
		reader: xbee.NewReader(conn),
		addr:   addr,
	}

	if toggle == nil {
		toggle = func(on bool) error { return serial.ToggleDTRRTS(conn, on) }
	}
	if err := h.resetPulse(toggle); err != nil {
		log.Printf("hostlink: reset pulse: %v (continuing without it)", err)
	}

	if !addr.Direct {
		if _, err := h.localAT(xbee.ATAPIMode, []byte{2}); err != nil {
			return nil, fmt.Errorf("hostlink: local XBee is not responding: %w", err)
		}
		if err := h.remoteAT(xbee.ATD6, []byte{0}); err != nil {
			return nil, fmt.Errorf("hostlink: remote XBee is not responding: %w", err)
		}
	}

	log.Printf("hostlink: session open, target %s", addr)
	return h, nil
}

// resetPulse drives toggle low for resetPulseLow then high for
// resetPulseHigh, the reset pulse a direct-mode programmer would give
// the target's reset line, performed unconditionally on open (spec
// §4.5) regardless of whether the session turns out to be direct or
// OTA.
func (h *Host) resetPulse(toggle func(on bool) error) error {
	if err := toggle(false); err != nil {
		return err
	}
	time.Sleep(resetPulseLow)
	if err := toggle(true); err != nil {
		return err
	}
	time.Sleep(resetPulseHigh)
	return nil
}

// Close performs a soft reset of the remote radio (restoring it to its
// power-on AT settings, since Open changed D6) before closing the
// underlying connection. Errors reported by the remote reset are
// logged, not returned, matching the original's "note the error but
// proceed with closing" behavior.
func (h *Host) Close() error {
	if !h.addr.Direct {
		if err := h.remoteAT(xbee.ATForceReset, nil); err != nil {
			log.Printf("hostlink: remote reset on close: %v", err)
		}
	}
	return h.conn.Close()
}

// SetDTRRTS toggles the target's reset/flow-control line. In direct mode
// this is a real DTR/RTS line on the local serial port, supplied via
// toggle; over the air it is emulated with the remote D3 pin function.
func (h *Host) SetDTRRTS(toggle func(on bool) error, on bool) error {
	if h.addr.Direct {
		if toggle == nil {
			return nil
		}
		return toggle(on)
	}
	value := byte(4)
	if on {
		value = 5
	}
	return h.remoteAT(xbee.ATD3, []byte{value})
}

// Drain discards any buffered inbound application bytes and reads
// frames until the link falls silent, the same "flushing the serial
// buffer is unhelpful under this protocol, drain the reassembled
// stream instead" approach the original takes.
func (h *Host) Drain() error {
	h.pending.reset()
	for {
		app, err := h.pollOnce()
		if err != nil {
			return nil // link fell silent; drained
		}
		if app != nil {
			h.pending.reset()
		}
	}
}
