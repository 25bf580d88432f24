package xbee

import (
	"fmt"
	"strings"
)

// DeliveryStatus is the delivery outcome byte of a Transmit Status (0x8B)
// frame. Only the subset a point-to-point tunnel actually sees in
// practice is named; anything else is reported numerically.
type DeliveryStatus byte

const (
	DSSuccess            DeliveryStatus = 0x00
	DSMACACKFailure      DeliveryStatus = 0x01
	DSCCAFailure         DeliveryStatus = 0x02
	DSNetworkACKFailure  DeliveryStatus = 0x21
	DSNotJoinedToNetwork DeliveryStatus = 0x22
	DSAddressNotFound    DeliveryStatus = 0x24
	DSRouteNotFound      DeliveryStatus = 0x25
	DSResourceError      DeliveryStatus = 0x2C
	DSDataPayloadTooLarge DeliveryStatus = 0x74
)

func (ds DeliveryStatus) String() string {
	switch ds {
	case DSSuccess:
		return "Success"
	case DSMACACKFailure:
		return "MACACKFailure"
	case DSCCAFailure:
		return "CCAFailure"
	case DSNetworkACKFailure:
		return "NetworkACKFailure"
	case DSNotJoinedToNetwork:
		return "NotJoinedToNetwork"
	case DSAddressNotFound:
		return "AddressNotFound"
	case DSRouteNotFound:
		return "RouteNotFound"
	case DSResourceError:
		return "ResourceError"
	case DSDataPayloadTooLarge:
		return "DataPayloadTooLarge"
	}
	return fmt.Sprintf("DeliveryStatus(%d)", byte(ds))
}

// DiscoveryStatus is the discovery-overhead byte that accompanies a
// DeliveryStatus in a Transmit Status frame.
type DiscoveryStatus byte

const (
	DiscoveryNone             DiscoveryStatus = 0x00
	DiscoveryAddress          DiscoveryStatus = 0x01
	DiscoveryRoute            DiscoveryStatus = 0x02
	DiscoveryAddressAndRoute  DiscoveryStatus = 0x03
	DiscoveryExtendedTimeout  DiscoveryStatus = 0x40
)

func (ds DiscoveryStatus) String() string {
	switch ds {
	case DiscoveryNone:
		return "None"
	case DiscoveryAddress:
		return "Address"
	case DiscoveryRoute:
		return "Route"
	case DiscoveryAddressAndRoute:
		return "AddressAndRoute"
	case DiscoveryExtendedTimeout:
		return "ExtendedTimeout"
	}
	return fmt.Sprintf("DiscoveryStatus(%d)", byte(ds))
}

// TransmitStatus is the parsed body of a 0x8B frame.
type TransmitStatus struct {
	FrameID         byte
	Address16       uint16
	RetryCount      int
	DeliveryStatus  DeliveryStatus
	DiscoveryStatus DiscoveryStatus
}

// ReceiveOption is the bitfield carried in a Receive Packet (0x90) frame.
type ReceiveOption byte

const (
	ROAcknowledged  ReceiveOption = 0x01
	ROBroadcast     ReceiveOption = 0x02
	ROEncrypted     ReceiveOption = 0x20
	ROFromEndDevice ReceiveOption = 0x40
)

func (o ReceiveOption) Has(opt ReceiveOption) bool {
	return (o & opt) != 0
}

func (o ReceiveOption) String() string {
	if o == 0 {
		return "None"
	}
	var opts []string
	if o.Has(ROAcknowledged) {
		opts = append(opts, "Acknowledged")
		o &^= ROAcknowledged
	}
	if o.Has(ROBroadcast) {
		opts = append(opts, "Broadcast")
		o &^= ROBroadcast
	}
	if o.Has(ROEncrypted) {
		opts = append(opts, "Encrypted")
		o &^= ROEncrypted
	}
	if o.Has(ROFromEndDevice) {
		opts = append(opts, "FromEndDevice")
		o &^= ROFromEndDevice
	}
	if o != 0 {
		opts = append(opts, fmt.Sprintf("ReceiveOption(%d)", byte(o)))
	}
	return strings.Join(opts, "|")
}

// TransmitOption is the options byte sent in a Transmit Request (0x10)
// frame. This tunnel always sends 0 (spec §4.3); the type exists so a
// caller constructing frames directly isn't forced to pass a bare byte.
type TransmitOption byte

const (
	TODisableRetriesAndRouteRepair TransmitOption = 0x01
	TOEnableAPSEncryption          TransmitOption = 0x20
	TOExtendedTxTimeout            TransmitOption = 0x40
)

// CommandStatus is the status byte of a local or remote AT command
// response (0x88 / 0x97).
type CommandStatus byte

const (
	CSOK               CommandStatus = 0
	CSError            CommandStatus = 1
	CSInvalidCommand   CommandStatus = 2
	CSInvalidParameter CommandStatus = 3
	CSTxFailure        CommandStatus = 4
)

func (cs CommandStatus) String() string {
	switch cs {
	case CSOK:
		return "OK"
	case CSError:
		return "Error"
	case CSInvalidCommand:
		return "InvalidCommand"
	case CSInvalidParameter:
		return "InvalidParameter"
	case CSTxFailure:
		return "TxFailure"
	}
	return fmt.Sprintf("CommandStatus(%d)", byte(cs))
}
