package cpu_test

import (
	"strings"
	"testing"

	"github.com/hexbus/sixfiveohtwo/asm"
	"github.com/hexbus/sixfiveohtwo/cpu"
)

func loadCPU(t *testing.T, asmString string) *cpu.CPU {
	assembly, err := asm.Assemble(strings.NewReader(asmString))
	if err != nil {
		t.Fatal(err)
	}

	mem := cpu.NewFlatMemory()
	mem.StoreBytes(cpu.ResetPC, assembly.Code)
	c := cpu.NewCPU(mem)
	c.Reset()
	return c
}

func stepCPU(t *testing.T, c *cpu.CPU, steps int) {
	for i := 0; i < steps; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func runCPU(t *testing.T, asmString string, steps int) *cpu.CPU {
	c := loadCPU(t, asmString)
	stepCPU(t, c, steps)
	return c
}

func expectPC(t *testing.T, c *cpu.CPU, pc uint16) {
	if c.Reg.PC != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, c.Reg.PC)
	}
}

func expectACC(t *testing.T, c *cpu.CPU, acc byte) {
	if c.Reg.A != acc {
		t.Errorf("Accumulator incorrect. exp: $%02X, got: $%02X", acc, c.Reg.A)
	}
}

func expectSP(t *testing.T, c *cpu.CPU, sp byte) {
	if c.Reg.SP != sp {
		t.Errorf("stack pointer incorrect. exp: %02X, got $%02X", sp, c.Reg.SP)
	}
}

func expectMem(t *testing.T, c *cpu.CPU, addr uint16, v byte) {
	got := c.Mem.LoadByte(addr)
	if got != v {
		t.Errorf("Memory at $%04X incorrect. exp: $%02X, got: $%02X", addr, v, got)
	}
}

func expectFlag(t *testing.T, name string, got, want bool) {
	if got != want {
		t.Errorf("%s flag incorrect. exp: %v, got: %v", name, want, got)
	}
}

func TestAccumulator(t *testing.T) {
	asmString := `
	LDA #$5E
	STA $15
	STA $1500`

	c := runCPU(t, asmString, 3)
	expectPC(t, c, cpu.ResetPC+7)
	expectACC(t, c, 0x5e)
	expectMem(t, c, 0x15, 0x5e)
	expectMem(t, c, 0x1500, 0x5e)
}

func TestStack(t *testing.T) {
	asmString := `
	LDA #$11
	PHA
	LDA #$12
	PHA
	LDA #$13
	PHA

	PLA
	STA $2000
	PLA
	STA $2001
	PLA
	STA $2002`

	c := loadCPU(t, asmString)
	stepCPU(t, c, 6)

	expectSP(t, c, 0xfc)
	expectACC(t, c, 0x13)
	expectMem(t, c, 0x1ff, 0x11)
	expectMem(t, c, 0x1fe, 0x12)
	expectMem(t, c, 0x1fd, 0x13)

	stepCPU(t, c, 6)
	expectACC(t, c, 0x11)
	expectSP(t, c, 0xff)
	expectMem(t, c, 0x2000, 0x13)
	expectMem(t, c, 0x2001, 0x12)
	expectMem(t, c, 0x2002, 0x11)
}

func TestIndirect(t *testing.T) {
	asmString := `
	LDX #$80
	LDY #$40
	LDA #$EE
	STA $2000,X
	STA $2000,Y

	LDA #$11
	STA $06
	LDA #$05
	STA $07
	LDX #$01
	LDY #$01
	LDA #$BB
	STA ($05,X)
	STA ($06),Y`

	c := runCPU(t, asmString, 14)
	expectMem(t, c, 0x2080, 0xee)
	expectMem(t, c, 0x2040, 0xee)
	expectMem(t, c, 0x0511, 0xbb)
	expectMem(t, c, 0x0512, 0xbb)
}

func TestZeroPageWrap(t *testing.T) {
	asmString := `
	LDX #$01
	LDA #$42
	STA $FF,X`

	c := runCPU(t, asmString, 3)
	expectMem(t, c, 0x0000, 0x42)
}

func TestBranchAndLoop(t *testing.T) {
	asmString := `
	LDX #$03
loop:
	DEX
	BNE loop`

	c := runCPU(t, asmString, 1+2*3)
	if c.Reg.X != 0 {
		t.Errorf("X incorrect. exp: 0, got: %d", c.Reg.X)
	}
	expectFlag(t, "Zero", c.Reg.Zero, true)
}

func TestJumpAndSubroutine(t *testing.T) {
	asmString := `
	JSR sub
	STA $20
	BRK
sub:
	LDA #$99
	RTS`

	c := loadCPU(t, asmString)
	stepCPU(t, c, 4)
	expectACC(t, c, 0x99)
	expectMem(t, c, 0x20, 0x99)
}

func TestAdcCarryAndOverflow(t *testing.T) {
	asmString := `
	LDA #$7F
	CLC
	ADC #$01`

	c := runCPU(t, asmString, 3)
	expectACC(t, c, 0x80)
	expectFlag(t, "Carry", c.Reg.Carry, false)
	expectFlag(t, "Overflow", c.Reg.Overflow, true)
	expectFlag(t, "Sign", c.Reg.Sign, true)
}

func TestAslFlags(t *testing.T) {
	asmString := `
	LDA #$C0
	ASL A`

	c := runCPU(t, asmString, 2)
	expectACC(t, c, 0x80)
	expectFlag(t, "Carry", c.Reg.Carry, true)
	expectFlag(t, "Sign", c.Reg.Sign, true)
	expectFlag(t, "Zero", c.Reg.Zero, false)
}

func TestRolMemoryRoundTrip(t *testing.T) {
	asmString := `
	LDA #$81
	STA $10
	SEC
	ROL $10
	ROL $10`

	c := runCPU(t, asmString, 5)
	expectMem(t, c, 0x10, 0x07)
	expectFlag(t, "Carry", c.Reg.Carry, false)
}

func TestIllegalOpcode(t *testing.T) {
	c := loadCPU(t, "")
	c.Mem.StoreByte(cpu.ResetPC, 0x02) // undefined opcode slot
	err := c.Step()
	if err == nil {
		t.Fatal("expected an error")
	}
	illegal, ok := err.(*cpu.IllegalOpcodeError)
	if !ok {
		t.Fatalf("expected *cpu.IllegalOpcodeError, got %T", err)
	}
	if illegal.Opcode != 0x02 || illegal.PC != cpu.ResetPC {
		t.Errorf("unexpected error detail: %+v", illegal)
	}
}

func TestStackUnderflow(t *testing.T) {
	c := loadCPU(t, "PLA")
	err := c.Step()
	if _, ok := err.(*cpu.StackUnderflowError); !ok {
		t.Fatalf("expected *cpu.StackUnderflowError, got %v", err)
	}
	expectSP(t, c, 0xff)
}

func TestStackOverflow(t *testing.T) {
	c := loadCPU(t, "PHA")
	c.Reg.SP = 0x00
	err := c.Step()
	if _, ok := err.(*cpu.StackOverflowError); !ok {
		t.Fatalf("expected *cpu.StackOverflowError, got %v", err)
	}
	expectSP(t, c, 0x00)
}

func TestBreakStopsRunCleanly(t *testing.T) {
	asmString := `
	LDA #$01
	BRK
	LDA #$02`

	c := loadCPU(t, asmString)
	if err := c.Run(10); err != nil {
		t.Fatalf("unexpected error from Run: %v", err)
	}
	expectACC(t, c, 0x01)
}

func TestTransferTargetsDestinationFlags(t *testing.T) {
	asmString := `
	LDA #$00
	LDX #$FF
	TXA`

	c := runCPU(t, asmString, 3)
	expectACC(t, c, 0xff)
	expectFlag(t, "Sign", c.Reg.Sign, true)
}
