package machine

import (
	"testing"

	"vt168ppu/internal/mmu"
)

func TestStepFrame_BlocksUntilRenderDoneAndProducesClearFrame(t *testing.T) {
	m := New(Config{})
	m.LoadROM(mmu.NewFlatROM(make([]byte, 0x4000)))
	defer m.Stop()

	m.StepFrame()
	if !m.IsRenderDone() {
		t.Fatalf("expected render done after StepFrame returns")
	}

	fb := m.Framebuffer()
	for i, v := range fb {
		if v != 0xFF000000 {
			t.Fatalf("pixel %d got %08X want FF000000 (all layers disabled)", i, v)
		}
	}
}

func TestStepFrame_CyclesPerFrameOverride(t *testing.T) {
	// Must exceed the default vblankLen so a single StepFrame still
	// crosses the end-of-VBLANK render trigger.
	m := New(Config{CyclesPerFrame: 22037})
	m.LoadROM(mmu.NewFlatROM(nil))
	defer m.Stop()
	m.StepFrame()
	if !m.IsRenderDone() {
		t.Fatalf("expected render done after overridden StepFrame")
	}
}

func TestWriteRead_PassthroughToPPURegisterPort(t *testing.T) {
	m := New(Config{})
	m.LoadROM(mmu.NewFlatROM(nil))
	defer m.Stop()

	m.Write(0x10, 0x42)
	if got := m.Read(0x10); got != 0x42 {
		t.Fatalf("got %02X want 42", got)
	}
}

func TestLoadROM_StopsPreviousPPU(t *testing.T) {
	m := New(Config{})
	m.LoadROM(mmu.NewFlatROM(nil))
	m.LoadROM(mmu.NewFlatROM(nil)) // must not leak or deadlock the first worker
	defer m.Stop()
	m.StepFrame()
}

func TestSaveLoadState_RoundTrips(t *testing.T) {
	m := New(Config{})
	m.LoadROM(mmu.NewFlatROM(nil))
	defer m.Stop()

	m.Write(0x00, 0x01)
	data := m.SaveState()

	m2 := New(Config{})
	m2.LoadROM(mmu.NewFlatROM(nil))
	defer m2.Stop()

	if err := m2.LoadState(data); err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if got := m2.Read(0x00); got != 0x01 {
		t.Fatalf("got %02X want 01", got)
	}
}
