package xbee

import "fmt"

// NextSequence returns the successor of seq under the application
// layer's stop-and-wait numbering: an 8-bit counter that wraps at 256
// and always skips the value 0, since 0 is reserved to mean "no inbound
// sequence has been accepted yet" (spec §4.4).
func NextSequence(seq byte) byte {
	seq++
	if seq == 0 {
		seq++
	}
	return seq
}

// AppPacket is the decoded application-layer envelope carried as the
// data portion of a Transmit Request / Receive Packet frame: either an
// acknowledgement of a previously received sequence number, or a
// sequenced request carrying a chunk of tunnelled STK500v1 bytes.
type AppPacket struct {
	Type     byte // AppACK or AppRequest
	Sequence byte
	AppType  byte // only meaningful when Type == AppRequest
	Data     []byte
}

// EncodeAppACK builds the application payload for acknowledging seq.
func EncodeAppACK(seq byte) []byte {
	return []byte{AppACK, seq}
}

// EncodeAppRequest builds the application payload for a sequenced
// request carrying appType and data.
func EncodeAppRequest(seq byte, appType byte, data []byte) []byte {
	out := make([]byte, 0, 3+len(data))
	out = append(out, AppRequest, seq, appType)
	out = append(out, data...)
	return out
}

// DecodeAppPacket parses the application-layer envelope out of the data
// portion of an inbound Transmit Request / Receive Packet frame.
func DecodeAppPacket(data []byte) (AppPacket, error) {
	if len(data) < 2 {
		return AppPacket{}, fmt.Errorf("xbee: %w: application packet needs at least 2 bytes, got %d", ErrShortFrame, len(data))
	}
	p := AppPacket{Type: data[0], Sequence: data[1]}
	switch p.Type {
	case AppACK:
		return p, nil
	case AppRequest:
		if len(data) < 3 {
			return AppPacket{}, fmt.Errorf("xbee: %w: request packet needs at least 3 bytes, got %d", ErrShortFrame, len(data))
		}
		p.AppType = data[2]
		p.Data = data[3:]
		return p, nil
	default:
		return AppPacket{}, fmt.Errorf("xbee: unknown application packet type %d", p.Type)
	}
}
