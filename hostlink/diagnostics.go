package hostlink

import "github.com/aprice/xbeeboot/xbee"

// Diagnostics is the read-only information a CLI "info" subcommand can
// pull from the local radio (never the remote target) over the local
// AT path: the serial number, node identifier and firmware version,
// exercising the rest of the AT command table beyond the AP/D3/D6/FR
// commands the tunnel itself issues.
type Diagnostics struct {
	SerialHigh      uint32
	SerialLow       uint32
	NodeIdentifier  string
	FirmwareVersion uint16
}

// ReadDiagnostics queries the local radio's identity via local AT
// commands; it never touches the remote target. A direct session has no
// XBee to ask (and localAT returns no data in direct mode), so
// ReadDiagnostics returns an error in that case instead of silently
// returning zero values.
func ReadDiagnostics(h *Host) (Diagnostics, error) {
	if h.addr.Direct {
		return Diagnostics{}, errDirectNoRadio
	}

	var d Diagnostics

	sh, err := h.localAT(xbee.ATSerialHigh, nil)
	if err != nil {
		return Diagnostics{}, err
	}
	d.SerialHigh = beUint32(sh)

	sl, err := h.localAT(xbee.ATSerialLow, nil)
	if err != nil {
		return Diagnostics{}, err
	}
	d.SerialLow = beUint32(sl)

	ni, err := h.localAT(xbee.ATNodeIdentifier, nil)
	if err != nil {
		return Diagnostics{}, err
	}
	d.NodeIdentifier = string(ni)

	vr, err := h.localAT(xbee.ATFirmwareVersion, nil)
	if err != nil {
		return Diagnostics{}, err
	}
	if len(vr) >= 2 {
		d.FirmwareVersion = uint16(vr[0])<<8 | uint16(vr[1])
	}

	return d, nil
}

func beUint32(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}
