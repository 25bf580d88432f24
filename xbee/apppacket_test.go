package xbee

import (
	"bytes"
	"testing"
)

func TestNextSequenceSkipsZero(t *testing.T) {
	if got := NextSequence(0xFF); got != 0x01 {
		t.Fatalf("NextSequence(0xFF) = %#x, want 0x01 (skip 0)", got)
	}
	if got := NextSequence(0x00); got != 0x01 {
		t.Fatalf("NextSequence(0x00) = %#x, want 0x01", got)
	}
	if got := NextSequence(0x05); got != 0x06 {
		t.Fatalf("NextSequence(0x05) = %#x, want 0x06", got)
	}
}

func TestAppPacketACKRoundTrip(t *testing.T) {
	data := EncodeAppACK(0x42)
	p, err := DecodeAppPacket(data)
	if err != nil {
		t.Fatalf("DecodeAppPacket: %v", err)
	}
	if p.Type != AppACK || p.Sequence != 0x42 {
		t.Fatalf("got %+v", p)
	}
}

func TestAppPacketRequestRoundTrip(t *testing.T) {
	payload := []byte("hello bootloader")
	data := EncodeAppRequest(0x07, AppFirmwareDeliver, payload)
	p, err := DecodeAppPacket(data)
	if err != nil {
		t.Fatalf("DecodeAppPacket: %v", err)
	}
	if p.Type != AppRequest || p.Sequence != 0x07 || p.AppType != AppFirmwareDeliver {
		t.Fatalf("got %+v", p)
	}
	if !bytes.Equal(p.Data, payload) {
		t.Fatalf("data mismatch: got %q want %q", p.Data, payload)
	}
}

func TestDecodeAppPacketShort(t *testing.T) {
	if _, err := DecodeAppPacket([]byte{0x01}); err == nil {
		t.Fatal("expected error for short packet")
	}
	if _, err := DecodeAppPacket([]byte{AppRequest, 0x01}); err == nil {
		t.Fatal("expected error for request packet missing app type")
	}
}
