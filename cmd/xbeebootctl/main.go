// Command xbeebootctl drives a Host Transport Facade session from the
// command line: opening a tunnel, pushing a file over it, reading bytes
// back, and querying the local radio's identity.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/aprice/xbeeboot/hostlink"
	"github.com/aprice/xbeeboot/serial"
	"github.com/aprice/xbeeboot/xbee"
)

var (
	flagBaud   = flag.Int("b", 0, "Baud rate (default 9600 OTA, 19200 direct)")
	flagDevice = flag.String("d", "", "Serial device path (e.g. /dev/ttyUSB0)")
	flagPort   = flag.String("p", "", "Port spec: <16-hex-xbee-address>@<device>, or @<device> for direct")
)

func main() {
	flag.Parse()

	addr, device, err := xbee.ParsePortSpec(*flagPort)
	if err != nil {
		log.Fatal(err)
	}
	if *flagDevice != "" {
		device = *flagDevice
	}

	baud := *flagBaud
	if baud == 0 {
		if addr.Direct {
			baud = 19200
		} else {
			baud = 9600
		}
	}

	conn, err := serial.OpenPort(serial.Options{Device: device, Baud: baud})
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	host, err := hostlink.Open(conn, addr, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer host.Close()

	switch flag.Arg(0) {
	case "send":
		path := flag.Arg(1)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal(err)
		}
		if err := host.Send(data); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Sent %d bytes\n", len(data))

	case "recv":
		n := 64
		if s := flag.Arg(1); s != "" {
			fmt.Sscanf(s, "%d", &n)
		}
		buf := make([]byte, n)
		got, err := host.Recv(buf)
		if err != nil {
			log.Fatal(err)
		}
		os.Stdout.Write(buf[:got])

	case "drain":
		if err := host.Drain(); err != nil {
			log.Fatal(err)
		}

	case "info":
		diag, err := hostlink.ReadDiagnostics(host)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Serial number: %08x%08x\n", diag.SerialHigh, diag.SerialLow)
		fmt.Printf("Node identifier: %s\n", diag.NodeIdentifier)
		fmt.Printf("Firmware version: %04x\n", diag.FirmwareVersion)

	default:
		fmt.Fprintln(os.Stderr, "usage: xbeebootctl -p <port-spec> [-d device] [-b baud] <send file|recv n|drain|info>")
		os.Exit(2)
	}
}
