// Package serial opens the local TTY a Host session tunnels through.
package serial

import (
	"errors"
	"io"
	"time"

	"github.com/jacobsa/go-serial/serial"
)

// ErrDTRRTSUnsupported is returned by ToggleDTRRTS: the underlying
// serial library opens a TTY but does not expose manual control of its
// modem control lines, so direct-mode DTR/RTS toggling needs a
// caller-supplied hook (spec §4.5's boundary around serial port
// drivers) rather than going through this package.
var ErrDTRRTSUnsupported = errors.New("serial: DTR/RTS toggling is not supported by this port")

// Options configures OpenPort. Baud defaults follow the tunnel's own
// convention (see cmd/xbeebootctl): 9600 over the air, 19200 direct.
type Options struct {
	Device string
	Baud   int

	// ReadTimeout bounds every blocking read; this is what stands in
	// for "serial read timeout of 1000ms" in the concurrency model
	// (spec §5) - a dead link surfaces as a read error, not a hang.
	ReadTimeout time.Duration
}

// OpenPort opens an 8N1 serial connection with no hardware flow
// control, the same configuration the reference XBee client library
// this package is modeled on uses.
func OpenPort(opts Options) (io.ReadWriteCloser, error) {
	readTimeout := opts.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = time.Second
	}
	return serial.Open(serial.OpenOptions{
		PortName:              opts.Device,
		BaudRate:              uint(opts.Baud),
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		MinimumReadSize:       0,
		InterCharacterTimeout: uint(readTimeout / time.Millisecond),
	})
}

// ToggleDTRRTS is the hook hostlink.Open falls back to for its reset
// pulse when no toggle is supplied. The default implementation always
// fails; a caller with access to
// a platform-specific ioctl (ala TIOCM_DTR/TIOCM_RTS) can supply its own
// function of the same shape instead.
func ToggleDTRRTS(io.ReadWriteCloser, bool) error {
	return ErrDTRRTSUnsupported
}
