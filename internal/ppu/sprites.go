package ppu

// renderSprites renders all 240 SPRAM entries into the layer buffers, per
// spec.md §4.5. Must only be called from the render worker, against
// p.regsShadow. Entries are walked highest-index-first so that lower
// indices composite on top within a shared destination layer.
func (p *PPU) renderSprites() {
	ctrl := p.regsShadow[regSpriteCtrl]
	if !bit(ctrl, 2) { // sprite enable
		return
	}
	spalsel := bit(ctrl, 3)
	size := ctrl & 0x03
	spW, spH := 8, 8
	if size == 2 || size == 3 {
		spW = 16
	}
	if size == 1 || size == 3 {
		spH = 16
	}
	seg := (uint16(p.regsShadow[regSpriteSegMSB]&0x0F) << 8) | uint16(p.regsShadow[regSpriteSegLSB])

	for idx := 239; idx >= 0; idx-- {
		e := p.spram[8*idx : 8*idx+8]
		vector := (uint16(e[1]&0x0F) << 8) | uint16(e[0])
		if vector == 0 {
			continue
		}
		layer := int((e[3] >> 3) & 0x03)
		palette := (e[1] >> 4) & 0x0F
		psel := bit(e[5], 1)

		x := int(e[2])
		if bit(e[3], 0) {
			x -= 256
		}
		y := int(e[4])
		if bit(e[5], 0) {
			y -= 256
		}

		buf := getCharData(p.fabric, seg, vector, spW, spH, IDX16, false)

		var pal0, pal1 []byte
		if spalsel || !psel {
			pal0 = p.vram[0x1E00+32*uint16(palette):]
		}
		if spalsel || psel {
			pal1 = p.vram[0x1C00+32*uint16(palette):]
		}

		p.blit(buf, spW, spH, layer, x, y, IDX16, pal0, pal1)
	}
}
