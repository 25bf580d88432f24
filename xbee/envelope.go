package xbee

import "fmt"

// BuildTransmitRequest builds a 0x10 Transmit Request frame payload
// addressed to dst, carrying app as its data. txSeq is the frame
// sequence echoed back in the matching Transmit Status (0x8B); it is
// independent of the application-layer AppPacket.Sequence carried
// inside app.
func BuildTransmitRequest(dst Address, txSeq byte, app []byte) []byte {
	addr64 := dst.Bytes64()
	addr16 := dst.Bytes16()
	out := make([]byte, 0, 14+len(app))
	out = append(out, FrameTransmitRequest, txSeq)
	out = append(out, addr64[:]...)
	out = append(out, addr16[:]...)
	out = append(out, 0 /* radius */, 0 /* options */)
	out = append(out, app...)
	return out
}

// BuildDirectFrame builds the 0x90 Receive Packet shaped frame a direct
// (wired, no-radio) session sends to its target: the target's bootloader
// always expects an inbound frame shaped as if it came from a remote
// radio (spec §4.6), so a direct-mode host synthesizes one locally
// instead of emitting a Transmit Request.
func BuildDirectFrame(app []byte) []byte {
	out := make([]byte, 0, 12+len(app))
	out = append(out, FrameReceivePacket)
	out = append(out, 0, 0, 0, 0, 0, 0, 0, 0) // addr64 = 0
	out = append(out, byte(Addr16Unknown>>8), byte(Addr16Unknown&0xFF))
	out = append(out, 0 /* receive options */)
	out = append(out, app...)
	return out
}

// BuildLocalAT builds a 0x08 Local AT Command frame payload.
func BuildLocalAT(frameID byte, cmd ATCommand, param []byte) []byte {
	out := make([]byte, 0, 4+len(param))
	out = append(out, FrameLocalAT, frameID, cmd[0], cmd[1])
	out = append(out, param...)
	return out
}

// BuildRemoteAT builds a 0x17 Remote AT Command frame payload addressed
// to dst, with the apply-changes flag always set (this tunnel never
// needs to batch remote AT commands before an AC).
func BuildRemoteAT(dst Address, frameID byte, cmd ATCommand, param []byte) []byte {
	addr64 := dst.Bytes64()
	addr16 := dst.Bytes16()
	const applyChanges = 0x02
	out := make([]byte, 0, 15+len(param))
	out = append(out, FrameRemoteAT, frameID)
	out = append(out, addr64[:]...)
	out = append(out, addr16[:]...)
	out = append(out, applyChanges)
	out = append(out, cmd[0], cmd[1])
	out = append(out, param...)
	return out
}

// ReceivedApp is the result of decoding an inbound data-bearing frame
// (0x10 or 0x90): the application packet it carried, plus addressing
// information learned along the way.
type ReceivedApp struct {
	Packet     AppPacket
	SourceAddr Address
}

// ParseReceived decodes an inbound 0x10 or 0x90 frame payload into its
// application packet. Which header shape applies is decided by the
// frame's own leading type byte, not by the session's direct/OTA mode -
// a direct session's target always emits 0x10 frames (it thinks it is
// talking to a coordinator radio), while a genuine remote XBee emits
// 0x90 Receive Packets; both can arrive on the same link.
func ParseReceived(payload []byte) (ReceivedApp, error) {
	if len(payload) == 0 {
		return ReceivedApp{}, ErrShortFrame
	}
	switch payload[0] {
	case FrameTransmitRequest:
		const header = 14 // type + seq + addr64(8) + addr16(2) + radius + options
		if len(payload) < header {
			return ReceivedApp{}, fmt.Errorf("xbee: %w: transmit request frame", ErrShortFrame)
		}
		app, err := DecodeAppPacket(payload[header:])
		if err != nil {
			return ReceivedApp{}, err
		}
		return ReceivedApp{
			Packet:     app,
			SourceAddr: addressFromFields(payload[2:10], payload[10:12]),
		}, nil
	case FrameReceivePacket:
		const header = 12 // type + addr64(8) + addr16(2) + options
		if len(payload) < header {
			return ReceivedApp{}, fmt.Errorf("xbee: %w: receive packet frame", ErrShortFrame)
		}
		app, err := DecodeAppPacket(payload[header:])
		if err != nil {
			return ReceivedApp{}, err
		}
		return ReceivedApp{
			Packet:     app,
			SourceAddr: addressFromFields(payload[1:9], payload[9:11]),
		}, nil
	default:
		return ReceivedApp{}, fmt.Errorf("xbee: %w: expected 0x10 or 0x90, got 0x%02x", ErrWrongFrameType, payload[0])
	}
}

func addressFromFields(addr64 []byte, addr16 []byte) Address {
	var a Address
	for _, b := range addr64 {
		a.Addr64 = a.Addr64<<8 | uint64(b)
	}
	a.Addr16 = uint16(addr16[0])<<8 | uint16(addr16[1])
	return a
}

// ATResponse is the parsed outcome of a local or remote AT command
// response frame.
type ATResponse struct {
	FrameID byte
	Command ATCommand
	Status  CommandStatus
	Data    []byte
}

// ParseLocalATResponse decodes a 0x88 frame payload.
func ParseLocalATResponse(payload []byte) (ATResponse, error) {
	if len(payload) < 5 {
		return ATResponse{}, fmt.Errorf("xbee: %w: local AT response frame", ErrShortFrame)
	}
	if payload[0] != FrameLocalATResponse {
		return ATResponse{}, fmt.Errorf("xbee: %w: expected 0x88, got 0x%02x", ErrWrongFrameType, payload[0])
	}
	return ATResponse{
		FrameID: payload[1],
		Command: ATCommand{payload[2], payload[3]},
		Status:  CommandStatus(payload[4]),
		Data:    payload[5:],
	}, nil
}

// ParseRemoteATResponse decodes a 0x97 frame payload.
func ParseRemoteATResponse(payload []byte) (ATResponse, error) {
	const header = 14 // type + frameID + addr64(8) + addr16(2) + cmd(2)
	if len(payload) < header+1 {
		return ATResponse{}, fmt.Errorf("xbee: %w: remote AT response frame", ErrShortFrame)
	}
	if payload[0] != FrameRemoteATResponse {
		return ATResponse{}, fmt.Errorf("xbee: %w: expected 0x97, got 0x%02x", ErrWrongFrameType, payload[0])
	}
	return ATResponse{
		FrameID: payload[1],
		Command: ATCommand{payload[12], payload[13]},
		Status:  CommandStatus(payload[14]),
		Data:    payload[header+1:],
	}, nil
}

// ParseTransmitStatus decodes a 0x8B frame payload.
func ParseTransmitStatus(payload []byte) (TransmitStatus, error) {
	if len(payload) < 7 {
		return TransmitStatus{}, fmt.Errorf("xbee: %w: transmit status frame", ErrShortFrame)
	}
	if payload[0] != FrameTransmitStatus {
		return TransmitStatus{}, fmt.Errorf("xbee: %w: expected 0x8b, got 0x%02x", ErrWrongFrameType, payload[0])
	}
	return TransmitStatus{
		FrameID:         payload[1],
		Address16:       uint16(payload[2])<<8 | uint16(payload[3]),
		RetryCount:      int(payload[4]),
		DeliveryStatus:  DeliveryStatus(payload[5]),
		DiscoveryStatus: DiscoveryStatus(payload[6]),
	}, nil
}
