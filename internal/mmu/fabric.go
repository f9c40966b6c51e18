package mmu

// Fabric is the memory fabric the PPU consumes for character ROM fetches.
// It is the sole interface boundary between the PPU and whatever backs
// physical ROM/RAM for the emulated system; the PPU never knows whether it
// is reading a flat image, a banked one, or something synthetic in tests.
type Fabric interface {
	ReadPhysical(addr uint32) byte
}

// FlatROM is the simplest Fabric: one contiguous image, addressed directly
// by the low 24 bits of the physical address. Reads past the end of the
// image return 0, matching spec.md's "reads past the end of a segment are
// delegated to the memory fabric" — this fabric's defined behavior for
// that case is to return zero rather than fault.
type FlatROM struct {
	data []byte
}

func NewFlatROM(data []byte) *FlatROM {
	return &FlatROM{data: data}
}

func (f *FlatROM) ReadPhysical(addr uint32) byte {
	addr &= 0x00FFFFFF
	if int(addr) < len(f.data) {
		return f.data[addr]
	}
	return 0
}

func (f *FlatROM) Len() int { return len(f.data) }
