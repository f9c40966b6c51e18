package ppu

import "testing"

func newTestPPU() *PPU {
	return New(fakeFabric(make([]byte, 0x4000)))
}

func TestBlit_IndexZeroLeavesDestinationUnchanged(t *testing.T) {
	p := newTestPPU()
	defer p.Stop()

	p.layers[0][0] = 0x12345678
	src := []byte{0x00} // two IDX4 texels, both index 0
	p.blit(src, 2, 1, 0, 0, 0, IDX4, nil, nil)

	if p.layers[0][0] != 0x12345678 {
		t.Fatalf("index-0 decode mutated destination: got %08X", p.layers[0][0])
	}
}

func TestBlit_SolidIndexOverwritesOnlyProvidedBank(t *testing.T) {
	p := newTestPPU()
	defer p.Stop()

	pal0 := make([]byte, 4)
	pal0[2], pal0[3] = 0xFF, 0x7F // entry 1 = 0x7FFF

	p.layers[0][0] = 0x9999AAAA
	src := []byte{0x01} // IDX4 texel 0 = index 1
	p.blit(src, 1, 1, 0, 0, 0, IDX4, pal0, nil)

	cell := p.layers[0][0]
	if uint16(cell) != 0x7FFF {
		t.Fatalf("bank0 got %04X want 7FFF", uint16(cell))
	}
	if uint16(cell>>16) != 0x9999 {
		t.Fatalf("bank1 (no pal1) should be untouched, got %04X", uint16(cell>>16))
	}
}

func TestBlit_ARGB1555WritesBothBanksFromSourceWord(t *testing.T) {
	p := newTestPPU()
	defer p.Stop()

	src := []byte{0xFF, 0x7F} // little-endian 0x7FFF, bit15 clear: solid
	p.blit(src, 1, 1, 0, 0, 0, ARGB1555, nil, nil)

	cell := p.layers[0][0]
	if uint16(cell) != 0x7FFF || uint16(cell>>16) != 0x7FFF {
		t.Fatalf("got %08X want both banks 7FFF", cell)
	}
}

func TestBlit_OutOfBoundsCoordinatesAreSkipped(t *testing.T) {
	p := newTestPPU()
	defer p.Stop()

	pal0 := make([]byte, 4)
	pal0[2], pal0[3] = 0xFF, 0x7F

	src := []byte{0x05} // two solid IDX4 texels, both index 1
	// dx places texel 0 off the left edge, texel 1 on-screen at x=0.
	p.blit(src, 2, 1, 0, -1, 0, IDX4, pal0, nil)

	if uint16(p.layers[0][0]) != 0x7FFF {
		t.Fatalf("on-screen neighbor should still render, got %04X", uint16(p.layers[0][0]))
	}
}

func TestPaletteEntry_OutOfRangeIsTransparent(t *testing.T) {
	pal := make([]byte, 4)
	if got := paletteEntry(pal, 5); got != transparentSample {
		t.Fatalf("got %04X want transparent", got)
	}
}
