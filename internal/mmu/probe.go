package mmu

import "hash/crc32"

// Info is a best-effort sniff of a loaded ROM image, trimmed from
// internal/cart/header.go's ParseHeader. No VT168 header layout is
// specified anywhere in spec.md, so this reports only what can be known
// from the bytes alone: size and a checksum for CLI logging.
type Info struct {
	SizeBytes int
	CRC32     uint32
}

// Probe inspects a raw ROM image for CLI logging purposes.
func Probe(data []byte) Info {
	return Info{
		SizeBytes: len(data),
		CRC32:     crc32.ChecksumIEEE(data),
	}
}
