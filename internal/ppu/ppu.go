// Package ppu implements the VT168-class picture processing unit: the
// register-driven rasterizer that turns a register file, an 8 KiB VRAM,
// and a 2 KiB sprite RAM into a 256x240 ARGB8888 framebuffer once per
// video frame, while a separate render worker goroutine keeps pace with a
// CPU that continues to mutate PPU state concurrently.
package ppu

import (
	"bytes"
	"encoding/gob"
	"sync"
	"sync/atomic"
)

// Fabric is the memory fabric the decoder reads character data through.
// The PPU depends only on this capability, never on a concrete memory
// implementation, so internal/mmu (or a test fake) can sit behind it.
type Fabric interface {
	ReadPhysical(addr uint32) byte
}

const (
	layerWidth  = 256
	layerHeight = 256
	outWidth    = 256
	outHeight   = 240
	numLayers   = 4

	vramSize  = 8192
	spramSize = 2048

	// transparentCell is the cleared value of a layer pixel: both the
	// palette-bank-0 and palette-bank-1 TRGB1555 halves carry the
	// transparency bit (bit 15 of each 16-bit half).
	transparentCell = 0x80008000
)

// Register addresses, per spec.md §4 and §6.
const (
	regCtrl   = 0x00 // bit0: NMI enable
	regStatus = 0x01 // bit7: VBLANK (read also acks pending NMI)

	regSPRAMAddrMSB = 0x02
	regSPRAMAddrLSB = 0x03
	regSPRAMData    = 0x04

	regVRAMAddrLSB = 0x05
	regVRAMAddrMSB = 0x06
	regVRAMData    = 0x07

	regOutPalSel   = 0x0E
	regLayerPalSel = 0x0F

	regBkgXLo  = 0x10 // bkg0 scroll X
	regBkgYLo  = 0x11
	regBkgC1Lo = 0x12
	regBkgC2Lo = 0x13
	regBkgXHi  = 0x14 // bkg1 scroll X
	regBkgYHi  = 0x15
	regBkgC1Hi = 0x16
	regBkgC2Hi = 0x17

	regSpriteCtrl   = 0x18
	regSpriteSegLSB = 0x1A
	regSpriteSegMSB = 0x1B

	regBkgSegLSBLo = 0x1C // bkg0 segment
	regBkgSegMSBLo = 0x1D
	regBkgSegLSBHi = 0x1E // bkg1 segment
	regBkgSegMSBHi = 0x1F
)

// PAL frame-clock constants (spec.md §4.7).
const (
	defaultVBlankStart = 0
	defaultVBlankLen   = 22036
	defaultVTotal      = 106392
)

// PPU owns the register file, VRAM, SPRAM, the four layer buffers, the
// output framebuffer, the frame clock, and the render worker goroutine.
type PPU struct {
	fabric Fabric

	regsMu     sync.Mutex
	regs       [256]byte
	regsShadow [256]byte

	vram  [vramSize]byte
	spram [spramSize]byte

	layers [numLayers][layerWidth * layerHeight]uint32
	obuf   [outWidth * outHeight]uint32

	vblankStart uint32
	vblankLen   uint32
	vTotal      uint32
	ticks       atomic.Uint32

	nmiPending atomic.Bool
	renderDone atomic.Bool

	frameStart chan struct{}
	frameDone  chan struct{}
	kill       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once
}

// New constructs a PPU wired to fabric and starts its render worker. The
// worker suspends on frameStart until Tick() signals end-of-VBLANK, or
// until Stop() closes kill.
func New(fabric Fabric) *PPU {
	p := &PPU{
		fabric:      fabric,
		vblankStart: defaultVBlankStart,
		vblankLen:   defaultVBlankLen,
		vTotal:      defaultVTotal,
		frameStart:  make(chan struct{}, 1),
		frameDone:   make(chan struct{}, 1),
		kill:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	p.renderDone.Store(true)
	p.clearLayers()
	go p.run()
	return p
}

// run is the render worker goroutine body. It performs exactly one render
// pass per frameStart signal, per spec.md §5's suspension-point contract.
func (p *PPU) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.kill:
			return
		case <-p.frameStart:
			select {
			case <-p.kill:
				return
			default:
			}
			p.renderFrame()
		}
	}
}

// Stop requests the render worker to exit without performing another
// render pass, and waits for it to do so.
func (p *PPU) Stop() {
	p.stopOnce.Do(func() {
		close(p.kill)
		// Unblock a worker parked on frameStart; harmless if it is not,
		// since kill is checked first in run()'s select.
		select {
		case p.frameStart <- struct{}{}:
		default:
		}
	})
	<-p.stopped
}

// Tick advances the frame clock by one CPU clock, per spec.md §4.7.
func (p *PPU) Tick() {
	t := p.ticks.Add(1)
	if t >= p.vTotal {
		p.ticks.Store(0)
		p.nmiPending.Store(true)
		return
	}
	if t == p.vblankLen {
		select {
		case p.frameStart <- struct{}{}:
		default:
			// Render worker hasn't drained the previous signal yet;
			// spec.md §5 has no timeouts, so this tick simply does not
			// block the CPU context.
		}
	}
}

// IsVBlank reports whether the frame clock is within the VBLANK window.
func (p *PPU) IsVBlank() bool {
	t := p.ticks.Load()
	return t >= p.vblankStart && t < p.vblankLen
}

// IsRenderDone reports whether the most recently started render pass has
// finished, for a presenter to gate reads of GetRenderBuffer.
func (p *PPU) IsRenderDone() bool { return p.renderDone.Load() }

// WaitFrameDone blocks until the render worker finishes the render pass
// most recently triggered by Tick's end-of-VBLANK signal. It is a thin
// wrapper over frameDone so a headless driver can step exactly one frame
// without polling, per spec.md §5's suspension-point contract.
func (p *PPU) WaitFrameDone() { <-p.frameDone }

// VTotal reports the frame clock's wraparound period.
func (p *PPU) VTotal() uint32 { return p.vTotal }

// NMIEnabled reports bit 0 of the control register.
func (p *PPU) NMIEnabled() bool { return p.readReg(regCtrl)&0x01 != 0 }

// GetRenderBuffer returns the 256x240 ARGB8888 output buffer. Callers
// must consult IsRenderDone before relying on its contents being from a
// completed pass; the render worker owns it exclusively during a pass.
func (p *PPU) GetRenderBuffer() *[outWidth * outHeight]uint32 { return &p.obuf }

func (p *PPU) readReg(addr byte) byte {
	p.regsMu.Lock()
	defer p.regsMu.Unlock()
	return p.regs[addr]
}

// Read implements the CPU-facing register port, including the SPRAM/VRAM
// windowed ports and the VBLANK status side effect, per spec.md §4.1.
func (p *PPU) Read(addr byte) byte {
	switch addr {
	case regSPRAMData:
		p.regsMu.Lock()
		defer p.regsMu.Unlock()
		a := p.spramAddrLocked()
		return p.spram[a]
	case regVRAMData:
		p.regsMu.Lock()
		defer p.regsMu.Unlock()
		a := p.vramAddrLocked()
		return p.vram[a]
	case regStatus:
		v := byte(0)
		if p.IsVBlank() {
			v = 0x80
		}
		p.nmiPending.Store(false)
		return v
	default:
		return p.readReg(addr)
	}
}

// Write implements the CPU-facing register port, per spec.md §4.1.
func (p *PPU) Write(addr byte, data byte) {
	switch addr {
	case regSPRAMData:
		p.regsMu.Lock()
		defer p.regsMu.Unlock()
		a := p.spramAddrLocked()
		p.spram[a] = data
		a++
		if (a & 0x07) >= 6 {
			a &^= 0x07
			a += 8
		}
		p.regs[regSPRAMAddrMSB] = byte((a >> 8) & 0x07)
		p.regs[regSPRAMAddrLSB] = byte(a & 0xFF)
	case regVRAMData:
		p.regsMu.Lock()
		defer p.regsMu.Unlock()
		a := p.vramAddrLocked()
		p.vram[a] = data
		a = (a + 1) & 0x1FFF
		p.regs[regVRAMAddrMSB] = byte((a >> 8) & 0x1F)
		p.regs[regVRAMAddrLSB] = byte(a & 0xFF)
	default:
		p.regsMu.Lock()
		p.regs[addr] = data
		p.regsMu.Unlock()
	}
}

// spramAddrLocked reads the SPRAM window base; regsMu must be held.
func (p *PPU) spramAddrLocked() uint16 {
	return (uint16(p.regs[regSPRAMAddrMSB]&0x07) << 8) | uint16(p.regs[regSPRAMAddrLSB])
}

// vramAddrLocked reads the VRAM window base; regsMu must be held.
func (p *PPU) vramAddrLocked() uint16 {
	return (uint16(p.regs[regVRAMAddrMSB]&0x1F) << 8) | uint16(p.regs[regVRAMAddrLSB])
}

func (p *PPU) clearLayers() {
	for l := 0; l < numLayers; l++ {
		layer := &p.layers[l]
		for i := range layer {
			layer[i] = transparentCell
		}
	}
}

// renderFrame performs exactly one render pass: snapshot, clear, render
// backgrounds back-to-front, render sprites, composite, publish.
func (p *PPU) renderFrame() {
	p.renderDone.Store(false)

	p.regsMu.Lock()
	copy(p.regsShadow[:], p.regs[:])
	p.regsMu.Unlock()

	p.clearLayers()

	for idx := 1; idx >= 0; idx-- {
		p.renderBackground(idx)
	}
	p.renderSprites()
	p.merge(false)

	p.renderDone.Store(true)
	select {
	case p.frameDone <- struct{}{}:
	default:
	}
}

// --- Save/Load state -------------------------------------------------

type ppuState struct {
	Regs        [256]byte
	VRAM        [vramSize]byte
	SPRAM       [spramSize]byte
	VBlankStart uint32
	VBlankLen   uint32
	VTotal      uint32
	Ticks       uint32
}

// SaveState serializes register/VRAM/SPRAM contents and the frame clock.
// Layer buffers and the output buffer are not persisted: they are a pure
// function of the saved state and are rebuilt by the next render pass.
func (p *PPU) SaveState() []byte {
	p.regsMu.Lock()
	s := ppuState{
		Regs:        p.regs,
		VRAM:        p.vram,
		SPRAM:       p.spram,
		VBlankStart: p.vblankStart,
		VBlankLen:   p.vblankLen,
		VTotal:      p.vTotal,
		Ticks:       p.ticks.Load(),
	}
	p.regsMu.Unlock()

	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(s)
	return buf.Bytes()
}

func (p *PPU) LoadState(data []byte) error {
	var s ppuState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	p.regsMu.Lock()
	p.regs = s.Regs
	p.vram = s.VRAM
	p.spram = s.SPRAM
	p.regsMu.Unlock()
	p.vblankStart = s.VBlankStart
	p.vblankLen = s.VBlankLen
	p.vTotal = s.VTotal
	p.ticks.Store(s.Ticks)
	return nil
}
