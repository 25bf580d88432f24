// Package xbee implements the wire-level pieces of the XBee escaped API
// frame protocol: byte stuffing, frame checksums, and the addressed
// envelope shapes (Transmit Request, Receive Packet, local/remote AT
// command and response, Transmit Status) that this tunnel uses to carry
// STK500v1 byte streams between a host programmer and a bootloader.
package xbee

// Special bytes that trigger byte-stuffing in escaped API mode (AP=2).
// These are wire-format constants, not configuration - they are never
// parametrised.
const (
	FrameDelimiter = 0x7E
	EscapeFlag     = 0x7D
	XON            = 0x11
	XOFF           = 0x13

	escapeXOR = 0x20

	// checksumBase is the constant the wire checksum is subtracted from.
	checksumBase = 0xFF
)

// API frame type bytes (first byte of a frame's payload).
const (
	FrameLocalAT          = 0x08
	FrameTransmitRequest  = 0x10
	FrameLocalATResponse  = 0x88
	FrameTransmitStatus   = 0x8B
	FrameReceivePacket    = 0x90
	FrameRemoteAT         = 0x17
	FrameRemoteATResponse = 0x97
)

// Application envelope message types, carried as the first byte of the
// data portion of a Transmit Request / Receive Packet.
const (
	AppACK     = 0x00
	AppRequest = 0x01
)

// Application payload tags, the third byte of an AppRequest message
// (after the message type and the sequence number).
const (
	AppFirmwareDeliver = 23 // host -> target bytes
	AppFirmwareReply   = 24 // target -> host bytes
)

const (
	// Addr16Unknown is the 16-bit network address before it has been
	// learned from an inbound Receive Packet.
	Addr16Unknown uint16 = 0xFFFE

	// HostChunkSize is the maximum number of STK500 bytes the host
	// places in one outbound application payload (Host Transport
	// Facade, spec §4.5).
	HostChunkSize = 64

	// TargetChunkSize is the maximum number of bytes the target places
	// in one outbound application payload (Target Transport, spec
	// §4.6): ZigBee unfragmented payload 84, less 18 bytes of network
	// layer overhead and 9 bytes of APS overhead, less 3 bytes of
	// application header.
	TargetChunkSize = 54

	// maxFramePayload bounds the unescaped frame payload length (length
	// field value); frames advertising a longer length are discarded
	// without being read byte-by-byte (Data Model §3: "Frame: at most
	// 256 bytes raw").
	maxFramePayload = 252
)
