package ppu

// ColorMode enumerates the pixel formats the character decoder and
// blitter understand, per spec.md §4.2.
type ColorMode int

const (
	IDX4 ColorMode = iota
	IDX16
	IDX64
	IDX256
	ARGB1555
)

// bpp returns the bits per pixel for a color mode.
func (m ColorMode) bpp() int {
	switch m {
	case IDX4:
		return 2
	case IDX16:
		return 4
	case IDX64:
		return 6
	case IDX256:
		return 8
	case ARGB1555:
		return 16
	default:
		panic("ppu: impossible color mode")
	}
}

// getCharData fetches and returns the packed pixel bytes for one
// character (tile or sprite cell) from the memory fabric, per spec.md
// §4.2. seg is a 12-bit segment, vector a 12-bit index within it.
func getCharData(fabric Fabric, seg, vector uint16, w, h int, fmt ColorMode, bmp bool) []byte {
	bpp := fmt.bpp()

	var spacingTexels int
	if bmp || fmt == ARGB1555 {
		spacingTexels = 16 * 16
	} else {
		spacingTexels = w * h
	}
	spacing := (spacingTexels * bpp) / 8

	base := (uint32(seg) << 13) + uint32(vector)*uint32(spacing)
	n := (w * h * bpp) / 8

	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = fabric.ReadPhysical(base + uint32(i))
	}
	return buf
}

// decodeIndex extracts the bpp-packed palette index for texel i from buf,
// per spec.md §4.2's bit-packing table (the 6-bpp/IDX_64 case uses the
// 4-texel repeating byte pattern described there).
func decodeIndex(buf []byte, i int, mode ColorMode) byte {
	switch mode {
	case IDX4:
		byteIdx := i / 4
		shift := (i % 4) * 2
		if byteIdx >= len(buf) {
			return 0
		}
		return (buf[byteIdx] >> shift) & 0x03
	case IDX16:
		byteIdx := i / 2
		shift := (i % 2) * 4
		if byteIdx >= len(buf) {
			return 0
		}
		return (buf[byteIdx] >> shift) & 0x0F
	case IDX256:
		if i >= len(buf) {
			return 0
		}
		return buf[i]
	case IDX64:
		return decodeIndex64(buf, i)
	default:
		panic("ppu: impossible indexed color mode")
	}
}

// decodeIndex64 implements the 4-pixel repeating 6-bit packing described
// in spec.md §4.2: pixel phases 0,6,4,2 advance (bit,byte) as
// (0,+0)->(6,+0)->(4,+1)->(2,+2)->(0,+3) across 3 bytes per 4 pixels.
func decodeIndex64(buf []byte, i int) byte {
	group := i / 4
	b0 := group * 3
	get := func(n int) byte {
		if n >= len(buf) {
			return 0
		}
		return buf[n]
	}
	switch i % 4 {
	case 0: // phase 0: byte[0][5:0], byte[0] = b0
		return get(b0) & 0x3F
	case 1: // phase 6: byte[0][7:6] | byte[1][3:0], byte[0..1] = b0, b0+1
		return (get(b0) >> 6) | ((get(b0+1) & 0x0F) << 2)
	case 2: // phase 4: byte[0][7:4] | byte[1][1:0], byte[0..1] = b0+1, b0+2
		return ((get(b0+1) & 0xF0) >> 4) | ((get(b0+2) & 0x03) << 4)
	case 3: // phase 2: byte[0][7:2], byte[0] = b0+2
		return (get(b0+2) >> 2) & 0x3F
	default:
		panic("ppu: impossible IDX_64 phase")
	}
}
