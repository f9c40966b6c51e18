// Command ppuview opens a window and runs a vt168ppu machine live,
// redrawing the PPU's framebuffer every host frame via ebiten.
package main

import (
	"flag"
	"log"
	"os"

	"vt168ppu/internal/machine"
	"vt168ppu/internal/mmu"
	"vt168ppu/internal/present"
)

func main() {
	var romPath string
	var scale int
	var title string
	flag.StringVar(&romPath, "rom", "", "path to a character ROM image")
	flag.IntVar(&scale, "scale", 3, "window scale")
	flag.StringVar(&title, "title", "vt168ppu", "window title")
	flag.Parse()

	var rom []byte
	if romPath != "" {
		data, err := os.ReadFile(romPath)
		if err != nil {
			log.Fatalf("read %s: %v", romPath, err)
		}
		rom = data
	}
	if len(rom) > 0 {
		info := mmu.Probe(rom)
		log.Printf("ROM: %s size=%dB crc32=%08x", romPath, info.SizeBytes, info.CRC32)
	}

	m := machine.New(machine.Config{})
	m.LoadROM(mmu.NewFlatROM(rom))
	defer m.Stop()

	app := present.NewApp(present.Config{Title: title, Scale: scale}, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
