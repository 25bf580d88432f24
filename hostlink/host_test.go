package hostlink

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	"github.com/aprice/xbeeboot/xbee"
)

func init() {
	// Tests don't need the real 250ms/50ms reset pulse durations.
	resetPulseLow = time.Millisecond
	resetPulseHigh = time.Millisecond
}

// noToggle stands in for a caller with no DTR/RTS line wired up.
func noToggle(bool) error { return nil }

// fakeRadio answers the handful of frames Open/Close/Send/Recv issue,
// standing in for a real remote XBee on the far end of conn.
type fakeRadio struct {
	conn   net.Conn
	reader *xbee.Reader
}

func newFakeRadio(conn net.Conn) *fakeRadio {
	return &fakeRadio{conn: conn, reader: xbee.NewReader(conn)}
}

func (r *fakeRadio) send(payload []byte) error {
	frame, err := xbee.EncodeFrame(payload)
	if err != nil {
		return err
	}
	_, err = r.conn.Write(frame)
	return err
}

func TestOpenDirectModeSkipsRadio(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 1)
		a.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		if _, err := a.Read(buf); err == nil {
			t.Error("direct-mode Open should not write anything to the link")
		}
	}()

	h, err := Open(b, xbee.Address{Direct: true}, noToggle)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	<-done
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpenDrivesResetPulse(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 1)
		a.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		a.Read(buf) // direct mode: nothing else to read, just drain
	}()

	var calls []bool
	toggle := func(on bool) error {
		calls = append(calls, on)
		return nil
	}

	h, err := Open(b, xbee.Address{Direct: true}, toggle)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	<-done
	defer h.Close()

	if len(calls) != 2 || calls[0] != false || calls[1] != true {
		t.Fatalf("expected toggle(false) then toggle(true), got %v", calls)
	}
}

func TestOpenOTAHandshake(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	target := xbee.Address{Addr64: 0x0013A20011223344, Addr16: 0xFFFE}
	errCh := make(chan error, 1)

	go func() {
		radio := newFakeRadio(a)

		// Local AT: AP=2
		frame, err := radio.reader.ReadFrame()
		if err != nil {
			errCh <- err
			return
		}
		if frame[0] != xbee.FrameLocalAT {
			errCh <- fmt.Errorf("expected local AT frame, got 0x%02x", frame[0])
			return
		}
		if err := radio.send([]byte{xbee.FrameLocalATResponse, frame[1], 'A', 'P', byte(xbee.CSOK)}); err != nil {
			errCh <- err
			return
		}

		// Remote AT: D6=0
		frame, err = radio.reader.ReadFrame()
		if err != nil {
			errCh <- err
			return
		}
		if frame[0] != xbee.FrameRemoteAT {
			errCh <- fmt.Errorf("expected remote AT frame, got 0x%02x", frame[0])
			return
		}
		resp := make([]byte, 0, 15)
		resp = append(resp, xbee.FrameRemoteATResponse, frame[1])
		resp = append(resp, frame[2:10]...) // echo addr64
		resp = append(resp, frame[10:12]...) // echo addr16
		resp = append(resp, 'D', '6', byte(xbee.CSOK))
		errCh <- radio.send(resp)
	}()

	h, err := Open(b, target, noToggle)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("fake radio: %v", err)
	}
	if h.addr.Addr64 != target.Addr64 {
		t.Fatalf("address mismatch: %+v", h.addr)
	}
}

func TestSendChunksAtHostChunkSize(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	h := &Host{conn: b, reader: xbee.NewReader(b), addr: xbee.Address{Direct: true}}

	payload := bytes.Repeat([]byte{0x42}, xbee.HostChunkSize+36)

	errCh := make(chan error, 1)
	var chunkLens []int
	go func() {
		radio := newFakeRadio(a)
		for total := 0; total < len(payload); {
			frame, err := radio.reader.ReadFrame()
			if err != nil {
				errCh <- err
				return
			}
			got, err := xbee.ParseReceived(frame)
			if err != nil {
				errCh <- err
				return
			}
			chunkLens = append(chunkLens, len(got.Packet.Data))
			total += len(got.Packet.Data)
			if err := radio.send(xbee.BuildDirectFrame(xbee.EncodeAppACK(got.Packet.Sequence))); err != nil {
				errCh <- err
				return
			}
		}
		errCh <- nil
	}()

	if err := h.Send(payload); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("fake radio: %v", err)
	}

	if len(chunkLens) != 2 || chunkLens[0] != xbee.HostChunkSize || chunkLens[1] != 36 {
		t.Fatalf("unexpected chunking: %v", chunkLens)
	}
}

func TestRecvPollsForReply(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	h := &Host{conn: b, reader: xbee.NewReader(b), addr: xbee.Address{Direct: true}}

	errCh := make(chan error, 1)
	go func() {
		radio := newFakeRadio(a)
		app := xbee.EncodeAppRequest(xbee.NextSequence(0), xbee.AppFirmwareReply, []byte("reply-data"))
		if err := radio.send(xbee.BuildDirectFrame(app)); err != nil {
			errCh <- err
			return
		}
		// Drain the host's ACK so its blocking write doesn't hang the pipe.
		_, err := radio.reader.ReadFrame()
		errCh <- err
	}()

	buf := make([]byte, 32)
	n, err := h.Recv(buf)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if !bytes.Equal(buf[:n], []byte("reply-data")) {
		t.Fatalf("got %q", buf[:n])
	}
	if err := <-errCh; err != nil {
		t.Fatalf("fake radio: %v", err)
	}
}

func TestPendingRingOverrunPanics(t *testing.T) {
	var r pendingRing
	r.write(bytes.Repeat([]byte{0x01}, pendingBufferSize))
	if r.len() != pendingBufferSize {
		t.Fatalf("expected full buffer, got len %d", r.len())
	}

	defer func() {
		rec := recover()
		if rec != ErrBufferOverrun {
			t.Fatalf("expected panic ErrBufferOverrun, got %v", rec)
		}
	}()
	r.write([]byte{0x02})
	t.Fatal("expected write past capacity to panic")
}

// discardConn is a conn that accepts writes silently and never has
// anything to read, standing in for dispatch's ACK writes when a test
// only needs to drive dispatch directly.
type discardConn struct{}

func (discardConn) Read([]byte) (int, error)    { return 0, io.EOF }
func (discardConn) Write(p []byte) (int, error) { return len(p), nil }
func (discardConn) Close() error                { return nil }

// TestDispatchPanicsOnBufferOverrun exercises the reachable path the
// review flagged: a caller that keeps sending and never calls Recv lets
// accepted FIRMWARE_REPLY chunks accumulate in pending indefinitely,
// since dispatch ACKs every in-sequence chunk regardless of whether
// anyone drains it. Once that would overflow the fixed-size reassembly
// buffer, dispatch must panic rather than grow or drop data silently.
func TestDispatchPanicsOnBufferOverrun(t *testing.T) {
	h := &Host{conn: discardConn{}, reader: xbee.NewReader(discardConn{}), addr: xbee.Address{Direct: true}}

	chunk := bytes.Repeat([]byte{0xAA}, 60)
	seq := byte(0)

	defer func() {
		rec := recover()
		if rec != ErrBufferOverrun {
			t.Fatalf("expected panic ErrBufferOverrun, got %v", rec)
		}
	}()

	for i := 0; i < pendingBufferSize; i++ { // far more iterations than needed to overflow
		seq = xbee.NextSequence(seq)
		app := xbee.EncodeAppRequest(seq, xbee.AppFirmwareReply, chunk)
		h.dispatch(xbee.BuildDirectFrame(app))
	}
	t.Fatal("expected dispatch to panic once pending overflowed")
}
