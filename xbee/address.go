package xbee

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address is the full addressing pair a Transmit Request needs: the
// 64-bit IEEE address of the destination module and its cached 16-bit
// network address (Addr16Unknown until learned from an inbound frame).
type Address struct {
	Addr64  uint64
	Addr16  uint16
	// Direct marks a session talking straight to a wired target rather
	// than over the air to a remote XBee; Direct sessions have no
	// meaningful Addr64/Addr16 and the host facade synthesizes 0x90
	// frames locally instead of sending 0x10 Transmit Requests.
	Direct bool
}

// Bytes64 returns the 8-byte big-endian encoding of Addr64.
func (a Address) Bytes64() [8]byte {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(a.Addr64 >> uint(8*(7-i)))
	}
	return b
}

// Bytes16 returns the 2-byte big-endian encoding of Addr16.
func (a Address) Bytes16() [2]byte {
	return [2]byte{byte(a.Addr16 >> 8), byte(a.Addr16)}
}

func (a Address) String() string {
	if a.Direct {
		return "direct"
	}
	return fmt.Sprintf("%016x", a.Addr64)
}

// ParsePortSpec parses the "<xbee-address>@<serial-device>" (or bare
// "@<serial-device>" for a direct connection) port syntax this tunnel
// uses to name a target, and returns the address and the device path
// separately.
func ParsePortSpec(spec string) (Address, string, error) {
	at := strings.IndexByte(spec, '@')
	if at < 0 {
		return Address{}, "", fmt.Errorf("xbee: bad port syntax %q: require \"<xbee-address>@<serial-device>\"", spec)
	}
	device := spec[at+1:]
	if at == 0 {
		return Address{Direct: true, Addr16: Addr16Unknown}, device, nil
	}

	addrHex := spec[:at]
	if len(addrHex) != 16 {
		return Address{}, "", fmt.Errorf("xbee: bad xbee address %q: require 16-character hexadecimal address", addrHex)
	}
	raw, err := hex.DecodeString(addrHex)
	if err != nil {
		return Address{}, "", fmt.Errorf("xbee: bad xbee address %q: %w", addrHex, err)
	}
	var addr64 uint64
	for _, b := range raw {
		addr64 = addr64<<8 | uint64(b)
	}
	return Address{Addr64: addr64, Addr16: Addr16Unknown}, device, nil
}
