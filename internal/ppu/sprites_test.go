package ppu

import "testing"

func spriteEntry(vector uint16, palette byte, x int, layer byte, y int, psel bool) [8]byte {
	var e [8]byte
	e[0] = byte(vector)
	e[1] = byte((vector>>8)&0x0F) | (palette << 4)
	e[3] = layer << 3
	if x < 0 {
		e[2] = byte(x + 256)
		e[3] |= 1
	} else {
		e[2] = byte(x)
	}
	if y < 0 {
		e[4] = byte(y + 256)
		e[5] = 1
	} else {
		e[4] = byte(y)
	}
	if psel {
		e[5] |= 1 << 1
	}
	return e
}

func TestRenderSprites_DisabledIsNoOp(t *testing.T) {
	p := newTestPPU()
	defer p.Stop()
	p.clearLayers()
	p.regsShadow[regSpriteCtrl] = 0x00
	p.renderSprites()
	if p.layers[0][0] != transparentCell {
		t.Fatalf("disabled sprite renderer wrote pixels")
	}
}

func TestRenderSprites_ZeroVectorIsSkipped(t *testing.T) {
	p := newTestPPU()
	defer p.Stop()
	p.clearLayers()
	p.regsShadow[regSpriteCtrl] = 1 << 2 // enable only
	e := spriteEntry(0, 0, 0, 0, 0, false)
	copy(p.spram[0:8], e[:])
	p.renderSprites()
	if p.layers[0][0] != transparentCell {
		t.Fatalf("vector==0 entry should not blit")
	}
}

// TestRenderSprites_SignExtendedOffset mirrors spec scenario 5: X byte
// 0xF0 with sign bit set renders at x = -16; only on-screen columns appear.
func TestRenderSprites_SignExtendedOffset(t *testing.T) {
	fab := make(fakeFabric, 0x10000)
	for i := 0; i < 32; i++ {
		fab[32+uint32(i)] = 0x11 // vector 1, IDX16 8x8 (32 bytes at 1*32), all texels index 1
	}
	p := New(fab)
	defer p.Stop()

	p.regsShadow[regSpriteCtrl] = 1<<2 | 0x00 // enable, 8x8
	e := spriteEntry(1, 0, -16, 0, 0, false)
	copy(p.spram[0:8], e[:])
	p.regsShadow[regSpriteCtrl] |= 1 << 3 // spalsel: both banks on
	p.vram[0x1E00+2] = 0xFF
	p.vram[0x1E00+3] = 0x7F // pal0 entry1 = 0x7FFF

	p.clearLayers()
	p.renderSprites()

	// Columns 0..7 of the sprite land at x = -16..-9: entirely off-screen.
	if p.layers[0][0] != transparentCell {
		t.Fatalf("off-screen sprite columns should not appear")
	}
}

func TestRenderSprites_PalSelTruthTable(t *testing.T) {
	fab := make(fakeFabric, 0x10000)
	for i := 0; i < 32; i++ {
		fab[32+uint32(i)] = 0x11
	}

	run := func(spalsel, psel bool) (bank0, bank1 bool) {
		p := New(fab)
		defer p.Stop()
		ctrl := byte(1 << 2)
		if spalsel {
			ctrl |= 1 << 3
		}
		p.regsShadow[regSpriteCtrl] = ctrl
		e := spriteEntry(1, 0, 0, 0, 0, psel)
		copy(p.spram[0:8], e[:])
		p.vram[0x1E00+2], p.vram[0x1E00+3] = 0xFF, 0x7F
		p.vram[0x1C00+2], p.vram[0x1C00+3] = 0x00, 0x7C
		p.clearLayers()
		p.renderSprites()
		cell := p.layers[0][0]
		bank0 = uint16(cell)&0x8000 == 0
		bank1 = uint16(cell>>16)&0x8000 == 0
		return
	}

	if b0, b1 := run(true, false); !b0 || !b1 {
		t.Fatalf("spalsel=1: want both banks, got %v %v", b0, b1)
	}
	if b0, b1 := run(false, false); !b0 || b1 {
		t.Fatalf("spalsel=0,psel=0: want pal0 only, got %v %v", b0, b1)
	}
	if b0, b1 := run(false, true); b0 || !b1 {
		t.Fatalf("spalsel=0,psel=1: want pal1 only, got %v %v", b0, b1)
	}
}
