// Package machine wires a memory fabric to a PPU and stands in for the
// CPU core that, in a full emulator, would drive both. It exists so the
// PPU can be exercised end-to-end (loaded, ticked, rendered, saved) without
// implementing the 6502-family core spec.md treats as an external
// collaborator.
package machine

import (
	"bytes"
	"encoding/gob"

	"vt168ppu/internal/mmu"
	"vt168ppu/internal/ppu"
)

// Machine owns a PPU and the memory fabric it reads character data
// through, generalizing internal/emu's bus+cpu+ppu orchestration down to
// just the PPU side.
type Machine struct {
	cfg Config
	ppu *ppu.PPU
}

// New allocates a Machine. It has no PPU and no memory fabric until
// LoadROM is called, which also starts the PPU's render worker goroutine.
func New(cfg Config) *Machine {
	return &Machine{cfg: cfg}
}

// LoadROM installs the memory fabric the PPU's character decoder reads
// physical segment/vector addresses through, and (re)starts the PPU
// against it. Any previous PPU's render worker is stopped first.
func (m *Machine) LoadROM(fabric mmu.Fabric) {
	if m.ppu != nil {
		m.ppu.Stop()
	}
	m.ppu = ppu.New(fabric)
}

// Stop halts the PPU's render worker. Callers that built a Machine with
// New+LoadROM should defer Stop once done driving it.
func (m *Machine) Stop() {
	if m.ppu != nil {
		m.ppu.Stop()
	}
}

// Write and Read stand in for the CPU's register-port access to the PPU,
// per spec.md §4.1 — a test or CLI harness calls these exactly the way a
// real CPU core would via its memory-mapped I/O decode.
func (m *Machine) Write(addr byte, data byte) { m.ppu.Write(addr, data) }
func (m *Machine) Read(addr byte) byte        { return m.ppu.Read(addr) }

// Tick advances the frame clock by cycles CPU clocks, standing in for the
// CPU clock driving ppu_tick() per spec.md §4.7.
func (m *Machine) Tick(cycles int) {
	for i := 0; i < cycles; i++ {
		m.ppu.Tick()
	}
}

// StepFrame advances one full frame clock period (or Config.CyclesPerFrame
// ticks, when that is set) and blocks until
// the render worker has finished the pass it triggers, for headless/CLI
// driving where wall-clock pacing doesn't matter.
func (m *Machine) StepFrame() {
	n := m.cfg.CyclesPerFrame
	if n <= 0 {
		n = int(m.ppu.VTotal())
	}
	m.Tick(n)
	m.ppu.WaitFrameDone()
}

// Framebuffer returns the 256x240 ARGB8888 output buffer most recently
// published by the render worker.
func (m *Machine) Framebuffer() *[256 * 240]uint32 { return m.ppu.GetRenderBuffer() }

// IsVBlank and IsRenderDone passthrough to the PPU for callers that want
// to poll rather than block on StepFrame.
func (m *Machine) IsVBlank() bool     { return m.ppu.IsVBlank() }
func (m *Machine) IsRenderDone() bool { return m.ppu.IsRenderDone() }

type machineState struct {
	PPU []byte
}

// SaveState serializes the PPU's registers, VRAM, SPRAM, and frame clock.
func (m *Machine) SaveState() []byte {
	var buf bytes.Buffer
	_ = gob.NewEncoder(&buf).Encode(machineState{PPU: m.ppu.SaveState()})
	return buf.Bytes()
}

func (m *Machine) LoadState(data []byte) error {
	var s machineState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	return m.ppu.LoadState(s.PPU)
}
