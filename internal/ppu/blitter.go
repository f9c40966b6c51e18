package ppu

// transparentSample is the TRGB1555 alpha key: bit 15 set means
// transparent, per spec.md §3.
const transparentSample = 0x8000

// blit writes a decoded source raster into one of the four layer
// buffers, honoring alpha keying per palette bank independently, per
// spec.md §4.3. pal0/pal1 are VRAM-backed palette slices that start at
// the palette base and run to the end of VRAM (little-endian TRGB1555
// entries). For indexed formats a nil slice means "this bank is not
// rendered for this primitive" and leaves the destination half untouched
// regardless of the source sample; ARGB1555 sources ignore pal0/pal1 and
// write the source word to both halves.
func (p *PPU) blit(src []byte, sw, sh int, dstLayer, dx, dy int, mode ColorMode, pal0, pal1 []byte) {
	dst := &p.layers[dstLayer]

	for sy := 0; sy < sh; sy++ {
		y := dy + sy
		if y < 0 || y >= layerHeight {
			continue
		}
		for sx := 0; sx < sw; sx++ {
			x := dx + sx
			if x < 0 || x >= layerWidth {
				continue
			}
			i := sy*sw + sx

			var sample0, sample1 uint16
			haveSample0, haveSample1 := false, false

			if mode == ARGB1555 {
				byteIdx := i * 2
				var word uint16
				if byteIdx+1 < len(src) {
					word = uint16(src[byteIdx]) | uint16(src[byteIdx+1])<<8
				} else {
					word = transparentSample
				}
				sample0, sample1 = word, word
				haveSample0, haveSample1 = true, true
			} else {
				idx := decodeIndex(src, i, mode)
				if idx == 0 {
					sample0, sample1 = transparentSample, transparentSample
					haveSample0, haveSample1 = true, true
				} else {
					if pal0 != nil {
						sample0 = paletteEntry(pal0, idx)
						haveSample0 = true
					}
					if pal1 != nil {
						sample1 = paletteEntry(pal1, idx)
						haveSample1 = true
					}
				}
			}

			cellIdx := y*layerWidth + x
			cell := dst[cellIdx]
			if haveSample0 && sample0&transparentSample == 0 {
				cell = (cell &^ 0x0000FFFF) | uint32(sample0)
			}
			if haveSample1 && sample1&transparentSample == 0 {
				cell = (cell &^ 0xFFFF0000) | (uint32(sample1) << 16)
			}
			dst[cellIdx] = cell
		}
	}
}

// paletteEntry reads palette entry idx (little-endian 16-bit TRGB1555)
// from a VRAM-backed palette slice.
func paletteEntry(pal []byte, idx byte) uint16 {
	off := int(idx) * 2
	if off+1 >= len(pal) {
		return transparentSample
	}
	return uint16(pal[off]) | uint16(pal[off+1])<<8
}
