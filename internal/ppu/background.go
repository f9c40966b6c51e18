package ppu

// scrollMode enumerates the tile-map page arrangement, per spec.md §4.4.
type scrollMode int

const (
	scrollFix scrollMode = 0
	scrollH   scrollMode = 1
	scrollV   scrollMode = 2
	scroll4P  scrollMode = 3
)

func bit(v byte, n int) bool { return (v>>n)&1 != 0 }

// tileAddr computes the VRAM tile-map address for tile (tx, ty) and
// whether that tile is mapped at all, per spec.md §4.4's per-scroll-mode
// address tables. size is the tile width/height in pixels (8 or 16);
// bmp selects the 256x1 bitmap-mode addressing (layer 0 only).
func tileAddr(tx, ty int, x8, y8 bool, size int, bmp bool, layer int, mode scrollMode) (addr uint16, mapped bool) {
	b2u := func(b bool) uint16 {
		if b {
			return 1
		}
		return 0
	}
	switch {
	case bmp:
		var base uint16
		switch mode {
		case scrollFix:
			base = (uint16(layer) << 11) | (b2u(y8) << 10) | (b2u(x8) << 9)
			mapped = tx < 1 && ty < 256
		case scrollH:
			if (tx > 1) != x8 {
				base = 0x200
			}
			mapped = ty < 256
		case scrollV:
			if (ty > 256) != y8 {
				base = 0x200
			}
			mapped = tx < 1
		case scroll4P:
			if (tx > 1) != x8 {
				base |= 0x200
			}
			if (ty > 256) != y8 {
				base |= 0x400
			}
			mapped = true
		}
		offset := uint16(ty%256) * 2
		return base + offset, mapped

	case size == 8:
		var base uint16
		switch mode {
		case scrollFix:
			if !y8 && !x8 {
				base = 0x000
			} else {
				base = 0x800
			}
			mapped = tx < 32 && ty < 32
		case scrollH:
			if (tx > 32) != x8 {
				base = 0x800
			}
			mapped = ty < 32
		case scrollV:
			if (ty > 32) != y8 {
				base = 0x800
			}
			mapped = tx < 32
		case scroll4P:
			// Unsupported for 8-pixel tiles: datasheet gap, see spec.md §7.
			panic("ppu: scroll mode 4P is unsupported at 8-pixel tile size")
		}
		offset := uint16((tx%32)+32*(ty%32)) * 2
		return base + offset, mapped

	case size == 16:
		var base uint16
		switch mode {
		case scrollFix:
			base = (uint16(layer) << 11) | (b2u(y8) << 10) | (b2u(x8) << 9)
			mapped = tx < 16 && ty < 16
		case scrollH:
			if (tx > 16) != x8 {
				base = 0x200
			}
			base |= uint16(layer) << 11
			mapped = ty < 16
		case scrollV:
			if (ty > 16) != y8 {
				base = 0x200
			}
			base |= uint16(layer) << 11
			mapped = tx < 16
		case scroll4P:
			if (tx > 16) != x8 {
				base |= 0x200
			}
			if (ty > 16) != y8 {
				base |= 0x400
			}
			base |= uint16(layer) << 11
			mapped = true
		}
		offset := uint16((tx%16)+16*(ty%16)) * 2
		return base + offset, mapped

	default:
		panic("ppu: impossible background tile size")
	}
}

// renderBackground renders background layer idx (0 or 1) into the layer
// buffers, per spec.md §4.4. Must only be called from the render worker,
// against p.regsShadow.
func (p *PPU) renderBackground(idx int) {
	var (
		regX, regY, regC1, regC2 byte
		segLSB, segMSB           byte
	)
	if idx == 0 {
		regX, regY, regC1, regC2 = regBkgXLo, regBkgYLo, regBkgC1Lo, regBkgC2Lo
		segLSB, segMSB = regBkgSegLSBLo, regBkgSegMSBLo
	} else {
		regX, regY, regC1, regC2 = regBkgXHi, regBkgYHi, regBkgC1Hi, regBkgC2Hi
		segLSB, segMSB = regBkgSegLSBHi, regBkgSegMSBHi
	}

	c1 := p.regsShadow[regC1]
	c2 := p.regsShadow[regC2]

	if !bit(c2, 7) { // layer enable
		return
	}

	bkxPal := bit(c2, 6)
	highColor := idx == 0 && bit(c1, 4)

	var mode ColorMode
	if highColor {
		mode = ARGB1555
	} else {
		switch (c2 >> 2) & 0x03 {
		case 0:
			mode = IDX4
		case 1:
			mode = IDX16
		case 2:
			mode = IDX64
		case 3:
			mode = IDX256
		}
	}

	x8 := bit(c1, 0)
	y8 := bit(c1, 1)
	renderPal0 := bit(p.regsShadow[regLayerPalSel], 0+2*idx)
	renderPal1 := bit(p.regsShadow[regLayerPalSel], 1+2*idx)

	xoff := int(p.regsShadow[regX])
	if x8 {
		xoff -= 256
	}
	yoff := int(p.regsShadow[regY])
	if y8 {
		yoff -= 256
	}

	bmp := idx == 0 && bit(c2, 1)
	scrl := scrollMode((c1 >> 2) & 0x03)
	size16 := bit(c2, 0)

	tileH, tileW := 8, 8
	if bmp {
		tileW, tileH = 256, 1
	} else if size16 {
		tileW, tileH = 16, 16
	}

	y0 := 0
	if (scrl == scrollV || scrl == scroll4P) && !bmp {
		y0 = -256
	}
	x0 := 0
	if (scrl == scrollH || scrl == scroll4P) && !bmp {
		x0 = -256
	}

	seg := (uint16(p.regsShadow[segMSB]&0x0F) << 8) | uint16(p.regsShadow[segLSB])

	for y := y0; y < 256; y += tileH {
		for x := x0; x < 256; x += tileW {
			lx := x + xoff
			ly := y + yoff
			tx := (x - x0) / tileW
			ty := (y - y0) / tileH

			addr, mapped := tileAddr(tx, ty, x8, y8, tileW, bmp, idx, scrl)
			if !mapped {
				continue
			}

			cell := uint16(p.vram[addr+1])<<8 | uint16(p.vram[addr])
			vector := cell & 0x0FFF
			cellPalBank := byte(cell>>12) & 0x0F
			if vector == 0 {
				continue
			}

			var depth, palBank byte
			if bkxPal {
				depth = (c2 >> 4) & 0x03
				switch mode {
				case IDX16:
					palBank = cellPalBank
				case IDX64:
					palBank = cellPalBank >> 2
				default:
					palBank = 0
				}
			} else {
				depth = cellPalBank & 0x03
				switch mode {
				case IDX16:
					palBank = ((c2 >> 4) & 0x03) | (cellPalBank >> 2)
				case IDX64:
					palBank = cellPalBank >> 2
				default:
					palBank = 0
				}
			}

			buf := getCharData(p.fabric, seg, vector, tileW, tileH, mode, bmp)

			var palOffset uint16
			switch mode {
			case IDX16:
				palOffset = uint16(palBank) * 32
			case IDX64:
				palOffset = uint16(palBank) * 128
			}

			var pal0, pal1 []byte
			if renderPal0 {
				pal0 = p.vram[0x1E00+palOffset:]
			}
			if renderPal1 {
				pal1 = p.vram[0x1C00+palOffset:]
			}

			p.blit(buf, tileW, tileH, int(depth&0x03), lx, ly, mode, pal0, pal1)
		}
	}
}
