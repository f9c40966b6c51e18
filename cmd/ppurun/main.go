// Command ppurun drives a vt168ppu machine headlessly: load a character
// ROM image, run a fixed number of frames, and optionally dump the
// resulting framebuffer to a PNG and/or assert its CRC32. It always runs
// headless; its -frames/-outpng/-expect flags mirror cmd/gbemu's headless
// mode, and -rom names the character ROM image.
package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"vt168ppu/internal/machine"
	"vt168ppu/internal/mmu"
)

type cliFlags struct {
	ROMPath string
	Frames  int
	PNGOut  string
	Expect  string
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to a character ROM image (VRAM/tile/sprite source data)")
	flag.IntVar(&f.Frames, "frames", 60, "frames to run")
	flag.StringVar(&f.PNGOut, "outpng", "", "write the final framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()
	return f
}

func framebufferToRGBA(fb *[256 * 240]uint32) []byte {
	pix := make([]byte, len(fb)*4)
	for i, argb := range fb {
		o := i * 4
		pix[o+0] = byte(argb >> 16)
		pix[o+1] = byte(argb >> 8)
		pix[o+2] = byte(argb)
		pix[o+3] = byte(argb >> 24)
	}
	return pix
}

func saveFramePNG(pix []byte, w, h int, path string) error {
	img := &image.RGBA{
		Pix:    pix,
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func runHeadless(m *machine.Machine, frames int, pngPath, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		m.StepFrame()
	}
	dur := time.Since(start)

	pix := framebufferToRGBA(m.Framebuffer())
	crc := crc32.ChecksumIEEE(pix)
	fps := float64(frames) / dur.Seconds()

	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, dur.Truncate(time.Millisecond), fps, crc)

	if pngPath != "" {
		if err := saveFramePNG(pix, 256, 240, pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func main() {
	f := parseFlags()

	var rom []byte
	if f.ROMPath != "" {
		data, err := os.ReadFile(f.ROMPath)
		if err != nil {
			log.Fatalf("read %s: %v", f.ROMPath, err)
		}
		rom = data
	}
	if len(rom) > 0 {
		info := mmu.Probe(rom)
		log.Printf("ROM: %s size=%dB crc32=%08x", f.ROMPath, info.SizeBytes, info.CRC32)
	}

	m := machine.New(machine.Config{})
	m.LoadROM(mmu.NewFlatROM(rom))
	defer m.Stop()

	if err := runHeadless(m, f.Frames, f.PNGOut, f.Expect); err != nil {
		log.Fatal(err)
	}
}
