package xbee

// ATCommand is a two-letter XBee AT command name, sent as the payload
// of a local (0x08) or remote (0x17) AT command frame.
type ATCommand [2]byte

func (c ATCommand) String() string {
	return string(c[:])
}

// Commands this tunnel issues to configure the radios (spec §4.5, Radio
// Configuration Sequencer): AP against the local radio, and D3, D6 and
// FR against the remote (target-side) radio.
var (
	// ATAPIMode. Set/read the API mode in use on the local radio. This
	// tunnel always sets it to 2 (escaped API mode) on open.
	ATAPIMode = ATCommand([2]byte{'A', 'P'})

	// ATD3 maps a physical radio pin to a function; this tunnel drives
	// the remote radio's DIO3 pin high (value 5) or low (value 4) as a
	// stand-in for the DTR/RTS line, since the bootloader's reset line is
	// wired through the remote module's I/O.
	ATD3 = ATCommand([2]byte{'D', '3'})

	// ATD6 configures the remote module's RTS flow control pin. The
	// tunnel clears it (0) on open so nothing on the remote module
	// throttles the UART it is bridging.
	ATD6 = ATCommand([2]byte{'D', '6'})

	// ATForceReset triggers a software reset of the module it is sent
	// to; issued on close against the remote radio to leave the target
	// UART link in a clean state.
	ATForceReset = ATCommand([2]byte{'F', 'R'})
)

// Read-only diagnostic commands, issued against the local radio only
// (never relayed to the remote target) by the info/diagnostics helper.
var (
	// ATSerialHigh reads the upper 32 bits of the local radio's unique
	// 64-bit address.
	ATSerialHigh = ATCommand([2]byte{'S', 'H'})

	// ATSerialLow reads the lower 32 bits of the local radio's unique
	// 64-bit address.
	ATSerialLow = ATCommand([2]byte{'S', 'L'})

	// ATNodeIdentifier reads the local radio's configured node
	// identifier string.
	ATNodeIdentifier = ATCommand([2]byte{'N', 'I'})

	// ATFirmwareVersion reads the local radio's firmware version.
	ATFirmwareVersion = ATCommand([2]byte{'V', 'R'})
)
