package cpu_test

import (
	"testing"

	"github.com/hexbus/sixfiveohtwo/cpu"
)

type recordingHandler struct {
	breaks     []uint16
	dataBreaks []uint16
}

func (h *recordingHandler) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	h.breaks = append(h.breaks, b.Address)
}

func (h *recordingHandler) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	h.dataBreaks = append(h.dataBreaks, b.Address)
}

func TestBreakpointFiresOnPC(t *testing.T) {
	asmString := `
	NOP
	NOP
	NOP`

	c := loadCPU(t, asmString)
	h := &recordingHandler{}
	d := cpu.NewDebugger(h)
	d.AddBreakpoint(cpu.ResetPC + 2)
	c.AttachDebugger(d)

	stepCPU(t, c, 3)

	if len(h.breaks) != 1 || h.breaks[0] != cpu.ResetPC+2 {
		t.Fatalf("expected one breakpoint hit at $%04X, got %v", cpu.ResetPC+2, h.breaks)
	}
}

func TestDisabledBreakpointDoesNotFire(t *testing.T) {
	c := loadCPU(t, "NOP\nNOP")
	h := &recordingHandler{}
	d := cpu.NewDebugger(h)
	b := d.AddBreakpoint(cpu.ResetPC + 1)
	b.Disabled = true
	c.AttachDebugger(d)

	stepCPU(t, c, 2)

	if len(h.breaks) != 0 {
		t.Fatalf("expected no breakpoint hits, got %v", h.breaks)
	}
}

func TestDataBreakpointFiresOnStore(t *testing.T) {
	asmString := `
	LDA #$42
	STA $0700`

	c := loadCPU(t, asmString)
	h := &recordingHandler{}
	d := cpu.NewDebugger(h)
	d.AddDataBreakpoint(0x0700)
	c.AttachDebugger(d)

	stepCPU(t, c, 2)

	if len(h.dataBreaks) != 1 || h.dataBreaks[0] != 0x0700 {
		t.Fatalf("expected one data breakpoint hit at $0700, got %v", h.dataBreaks)
	}
}

func TestConditionalDataBreakpointRequiresMatchingValue(t *testing.T) {
	asmString := `
	LDA #$01
	STA $0700
	LDA #$02
	STA $0700`

	c := loadCPU(t, asmString)
	h := &recordingHandler{}
	d := cpu.NewDebugger(h)
	d.AddConditionalDataBreakpoint(0x0700, 0x02)
	c.AttachDebugger(d)

	stepCPU(t, c, 4)

	if len(h.dataBreaks) != 1 {
		t.Fatalf("expected exactly one conditional data breakpoint hit, got %v", h.dataBreaks)
	}
}

func TestRemoveBreakpointStopsNotifications(t *testing.T) {
	c := loadCPU(t, "NOP\nNOP")
	h := &recordingHandler{}
	d := cpu.NewDebugger(h)
	d.AddBreakpoint(cpu.ResetPC + 1)
	d.RemoveBreakpoint(cpu.ResetPC + 1)
	c.AttachDebugger(d)

	stepCPU(t, c, 2)

	if len(h.breaks) != 0 {
		t.Fatalf("expected no breakpoint hits after removal, got %v", h.breaks)
	}
}

func TestDetachDebuggerStopsNotifications(t *testing.T) {
	c := loadCPU(t, "NOP\nNOP")
	h := &recordingHandler{}
	d := cpu.NewDebugger(h)
	d.AddBreakpoint(cpu.ResetPC + 1)
	c.AttachDebugger(d)
	c.DetachDebugger()

	stepCPU(t, c, 2)

	if len(h.breaks) != 0 {
		t.Fatalf("expected no breakpoint hits after detach, got %v", h.breaks)
	}
}

func TestGetBreakpointsSortedByAddress(t *testing.T) {
	d := cpu.NewDebugger(nil)
	d.AddBreakpoint(0x0610)
	d.AddBreakpoint(0x0600)
	d.AddBreakpoint(0x0605)

	bps := d.GetBreakpoints()
	if len(bps) != 3 {
		t.Fatalf("expected 3 breakpoints, got %d", len(bps))
	}
	for i := 1; i < len(bps); i++ {
		if bps[i-1].Address > bps[i].Address {
			t.Fatalf("breakpoints not sorted: %v", bps)
		}
	}
}
