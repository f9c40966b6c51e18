package mmu

import "testing"

func TestFlatROM_ReadPhysical(t *testing.T) {
	data := make([]byte, 32)
	for i := range data {
		data[i] = byte(i)
	}
	f := NewFlatROM(data)

	if got := f.ReadPhysical(5); got != 5 {
		t.Fatalf("got %02X want 05", got)
	}
	if got := f.ReadPhysical(1000); got != 0 {
		t.Fatalf("past-end read got %02X want 00", got)
	}
}

func TestBankedROM_FixedAndSwitchableWindow(t *testing.T) {
	bankSize := uint32(0x2000)
	data := make([]byte, 8*int(bankSize))
	for bank := 0; bank < 8; bank++ {
		data[bank*int(bankSize)] = byte(bank)
	}
	b := NewBankedROM(data, bankSize)

	if got := b.ReadPhysical(0); got != 0x00 {
		t.Fatalf("fixed window got %02X want 00", got)
	}
	if got := b.ReadPhysical(bankSize); got != 0x01 {
		t.Fatalf("default switchable bank got %02X want 01", got)
	}

	b.SelectBank(5)
	if got := b.ReadPhysical(bankSize); got != 0x05 {
		t.Fatalf("bank5 read got %02X want 05", got)
	}

	b.SelectBank(0)
	if got := b.ReadPhysical(bankSize); got != 0x01 {
		t.Fatalf("bank0->1 remap failed: got %02X", got)
	}
}

func TestProbe(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	info := Probe(data)
	if info.SizeBytes != 4 {
		t.Fatalf("size got %d want 4", info.SizeBytes)
	}
	if info.CRC32 == 0 {
		t.Fatalf("expected nonzero CRC32")
	}
}
