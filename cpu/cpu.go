// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements a fetch-decode-execute emulator for the NMOS
// 6502 microprocessor: registers, a flat 64K memory, and the 151 legal
// (mnemonic, addressing mode) opcodes. It does not model cycle timing,
// decimal-mode arithmetic, illegal opcodes, or interrupt vectors.
package cpu

// ResetPC is the program counter value Reset leaves the CPU at. It is
// also the fixed load origin the assembler targets.
const ResetPC = 0x0600

// CPU represents a single 6502 processor bound to a Memory. A CPU is
// not safe for concurrent use; callers sharing one across goroutines
// must synchronize access themselves.
type CPU struct {
	Reg       Registers
	Mem       Memory
	InstSet   *InstructionSet
	debugger  *Debugger
	storeByte func(cpu *CPU, addr uint16, v byte)
}

// NewCPU creates an emulated 6502 CPU bound to the given memory. The
// registers start at their Init values (SP $FF, PC and everything else
// zero); call Reset to set PC to ResetPC before running.
func NewCPU(m Memory) *CPU {
	cpu := &CPU{
		Mem:       m,
		InstSet:   GetInstructionSet(),
		storeByte: (*CPU).storeByteNormal,
	}
	cpu.Reg.Init()
	return cpu
}

// Reset zeroes the registers and sets PC to ResetPC and SP to $FF.
func (cpu *CPU) Reset() {
	cpu.Reg.Init()
	cpu.Reg.PC = ResetPC
}

// AttachDebugger attaches a breakpoint debugger to the CPU.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.storeByte = (*CPU).storeByteDebugger
}

// DetachDebugger detaches the currently attached debugger, if any.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.storeByte = (*CPU).storeByteNormal
}

// GetInstruction returns the decoded instruction at addr without
// executing it.
func (cpu *CPU) GetInstruction(addr uint16) *Instruction {
	opcode := cpu.Mem.LoadByte(addr)
	return cpu.InstSet.Lookup(opcode)
}

// NextAddr returns the address of the instruction following the one at
// addr.
func (cpu *CPU) NextAddr(addr uint16) uint16 {
	inst := cpu.GetInstruction(addr)
	return addr + uint16(inst.Length)
}

// Step executes a single instruction. It returns ErrBreak if the
// instruction was BRK, an *IllegalOpcodeError if the opcode at PC is
// undefined, or a stack error if the instruction under/overflowed the
// stack. On any error, registers and memory are left exactly as the
// last successful instruction left them; in particular PC still
// addresses the BRK or the failing instruction.
func (cpu *CPU) Step() error {
	opcode := cpu.Mem.LoadByte(cpu.Reg.PC)
	inst := cpu.InstSet.Lookup(opcode)
	if inst.Name == "" {
		return &IllegalOpcodeError{PC: cpu.Reg.PC, Opcode: opcode}
	}

	var buf [2]byte
	operand := buf[:inst.Length-1]
	cpu.Mem.LoadBytes(cpu.Reg.PC+1, operand)

	saved := cpu.Reg
	if !modifiesPC(inst) {
		cpu.Reg.PC += uint16(inst.Length)
	}

	if err := inst.fn(cpu, inst, operand); err != nil {
		cpu.Reg = saved
		return err
	}

	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}
	return nil
}

// Run calls Step in a loop until it returns ErrBreak, any other error,
// or maxSteps instructions have executed. ErrBreak is translated into
// a nil return; any other error is returned to the caller.
func (cpu *CPU) Run(maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		err := cpu.Step()
		switch {
		case err == nil:
			continue
		case err == ErrBreak:
			return nil
		default:
			return err
		}
	}
	return nil
}

// load reads an operand byte using the addressing mode's effective
// address computation.
func (cpu *CPU) load(mode Mode, operand []byte) byte {
	switch mode {
	case Immediate:
		return operand[0]
	case ZeroPage:
		return cpu.Mem.LoadByte(operandToAddress(operand))
	case ZeroPageX:
		addr := offsetZeroPage(operandToAddress(operand), cpu.Reg.X)
		return cpu.Mem.LoadByte(addr)
	case ZeroPageY:
		addr := offsetZeroPage(operandToAddress(operand), cpu.Reg.Y)
		return cpu.Mem.LoadByte(addr)
	case Absolute:
		return cpu.Mem.LoadByte(operandToAddress(operand))
	case AbsoluteX:
		addr, _ := offsetAddress(operandToAddress(operand), cpu.Reg.X)
		return cpu.Mem.LoadByte(addr)
	case AbsoluteY:
		addr, _ := offsetAddress(operandToAddress(operand), cpu.Reg.Y)
		return cpu.Mem.LoadByte(addr)
	case IndirectX:
		zpaddr := offsetZeroPage(operandToAddress(operand), cpu.Reg.X)
		addr := cpu.Mem.LoadAddress(zpaddr)
		return cpu.Mem.LoadByte(addr)
	case IndirectY:
		addr := cpu.Mem.LoadAddress(operandToAddress(operand))
		addr, _ = offsetAddress(addr, cpu.Reg.Y)
		return cpu.Mem.LoadByte(addr)
	case Accumulator:
		return cpu.Reg.A
	default:
		panic("invalid addressing mode")
	}
}

// loadAddress reads a 16-bit target address for JMP/JSR/Indirect.
func (cpu *CPU) loadAddress(mode Mode, operand []byte) uint16 {
	switch mode {
	case Absolute:
		return operandToAddress(operand)
	case Indirect:
		return cpu.Mem.LoadAddress(operandToAddress(operand))
	default:
		panic("invalid addressing mode")
	}
}

// store writes v to the effective address of the given addressing mode.
func (cpu *CPU) store(mode Mode, operand []byte, v byte) {
	switch mode {
	case ZeroPage:
		cpu.storeByte(cpu, operandToAddress(operand), v)
	case ZeroPageX:
		addr := offsetZeroPage(operandToAddress(operand), cpu.Reg.X)
		cpu.storeByte(cpu, addr, v)
	case ZeroPageY:
		addr := offsetZeroPage(operandToAddress(operand), cpu.Reg.Y)
		cpu.storeByte(cpu, addr, v)
	case Absolute:
		cpu.storeByte(cpu, operandToAddress(operand), v)
	case AbsoluteX:
		addr, _ := offsetAddress(operandToAddress(operand), cpu.Reg.X)
		cpu.storeByte(cpu, addr, v)
	case AbsoluteY:
		addr, _ := offsetAddress(operandToAddress(operand), cpu.Reg.Y)
		cpu.storeByte(cpu, addr, v)
	case IndirectX:
		zpaddr := offsetZeroPage(operandToAddress(operand), cpu.Reg.X)
		addr := cpu.Mem.LoadAddress(zpaddr)
		cpu.storeByte(cpu, addr, v)
	case IndirectY:
		addr := cpu.Mem.LoadAddress(operandToAddress(operand))
		addr, _ = offsetAddress(addr, cpu.Reg.Y)
		cpu.storeByte(cpu, addr, v)
	case Accumulator:
		cpu.Reg.A = v
	default:
		panic("invalid addressing mode")
	}
}

// branch sets PC from a relative-mode signed displacement operand, the
// base of the displacement being the address of the byte after the
// branch instruction (PC has already been advanced past the
// instruction by the time a branch handler runs).
func (cpu *CPU) branch(operand []byte) {
	offset := operandToAddress(operand)
	if offset < 0x80 {
		cpu.Reg.PC += uint16(offset)
	} else {
		cpu.Reg.PC -= uint16(0x100 - offset)
	}
}

func (cpu *CPU) updateNZ(v byte) {
	cpu.Reg.updateNZ(v)
}

func (cpu *CPU) storeByteNormal(addr uint16, v byte) {
	cpu.Mem.StoreByte(addr, v)
}

func (cpu *CPU) storeByteDebugger(addr uint16, v byte) {
	cpu.debugger.onDataStore(cpu, addr, v)
	cpu.Mem.StoreByte(addr, v)
}

// push writes v to the stack and decrements SP. It fails without
// touching memory or SP if the stack is already full.
func (cpu *CPU) push(v byte) error {
	if cpu.Reg.SP == 0x00 {
		return &StackOverflowError{PC: cpu.Reg.PC}
	}
	cpu.storeByte(cpu, stackAddress(cpu.Reg.SP), v)
	cpu.Reg.SP--
	return nil
}

// pushAddress pushes a 16-bit address high byte first, then low byte.
// It fails without touching memory or SP if the stack lacks room for
// both bytes.
func (cpu *CPU) pushAddress(addr uint16) error {
	if cpu.Reg.SP < 0x02 {
		return &StackOverflowError{PC: cpu.Reg.PC}
	}
	if err := cpu.push(byte(addr >> 8)); err != nil {
		return err
	}
	return cpu.push(byte(addr))
}

// pop increments SP and reads the byte now on top of the stack. It
// fails without touching memory or SP if the stack is already empty.
func (cpu *CPU) pop() (byte, error) {
	if cpu.Reg.SP == 0xff {
		return 0, &StackUnderflowError{PC: cpu.Reg.PC}
	}
	cpu.Reg.SP++
	return cpu.Mem.LoadByte(stackAddress(cpu.Reg.SP)), nil
}

// popAddress pops a 16-bit address, low byte first then high byte.
func (cpu *CPU) popAddress() (uint16, error) {
	lo, err := cpu.pop()
	if err != nil {
		return 0, err
	}
	hi, err := cpu.pop()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// Add with carry.
func (cpu *CPU) adc(inst *Instruction, operand []byte) error {
	acc := uint32(cpu.Reg.A)
	add := uint32(cpu.load(inst.Mode, operand))
	carry := uint32(boolToByte(cpu.Reg.Carry))
	v := acc + add + carry
	cpu.Reg.Carry = v >= 0x100
	cpu.Reg.Overflow = ((acc & 0x80) == (add & 0x80)) && ((acc & 0x80) != (v & 0x80))
	cpu.Reg.A = byte(v)
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

func (cpu *CPU) and(inst *Instruction, operand []byte) error {
	cpu.Reg.A &= cpu.load(inst.Mode, operand)
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

func (cpu *CPU) asl(inst *Instruction, operand []byte) error {
	v := cpu.load(inst.Mode, operand)
	cpu.Reg.Carry = (v & 0x80) == 0x80
	v <<= 1
	cpu.updateNZ(v)
	cpu.store(inst.Mode, operand, v)
	return nil
}

func (cpu *CPU) bcc(inst *Instruction, operand []byte) error {
	if !cpu.Reg.Carry {
		cpu.branch(operand)
	}
	return nil
}

func (cpu *CPU) bcs(inst *Instruction, operand []byte) error {
	if cpu.Reg.Carry {
		cpu.branch(operand)
	}
	return nil
}

func (cpu *CPU) beq(inst *Instruction, operand []byte) error {
	if cpu.Reg.Zero {
		cpu.branch(operand)
	}
	return nil
}

func (cpu *CPU) bit(inst *Instruction, operand []byte) error {
	v := cpu.load(inst.Mode, operand)
	cpu.Reg.Zero = (v & cpu.Reg.A) == 0
	cpu.Reg.Sign = (v & 0x80) != 0
	cpu.Reg.Overflow = (v & 0x40) != 0
	return nil
}

func (cpu *CPU) bmi(inst *Instruction, operand []byte) error {
	if cpu.Reg.Sign {
		cpu.branch(operand)
	}
	return nil
}

func (cpu *CPU) bne(inst *Instruction, operand []byte) error {
	if !cpu.Reg.Zero {
		cpu.branch(operand)
	}
	return nil
}

func (cpu *CPU) bpl(inst *Instruction, operand []byte) error {
	if !cpu.Reg.Sign {
		cpu.branch(operand)
	}
	return nil
}

// brk is a pure stop signal here: no interrupt vector fetch, no stack
// push of PC/P. See DESIGN.md for why this Open Question was resolved
// this way.
func (cpu *CPU) brk(inst *Instruction, operand []byte) error {
	return ErrBreak
}

func (cpu *CPU) bvc(inst *Instruction, operand []byte) error {
	if !cpu.Reg.Overflow {
		cpu.branch(operand)
	}
	return nil
}

func (cpu *CPU) bvs(inst *Instruction, operand []byte) error {
	if cpu.Reg.Overflow {
		cpu.branch(operand)
	}
	return nil
}

func (cpu *CPU) clc(inst *Instruction, operand []byte) error {
	cpu.Reg.Carry = false
	return nil
}

func (cpu *CPU) cld(inst *Instruction, operand []byte) error {
	cpu.Reg.Decimal = false
	return nil
}

func (cpu *CPU) cli(inst *Instruction, operand []byte) error {
	cpu.Reg.InterruptDisable = false
	return nil
}

func (cpu *CPU) clv(inst *Instruction, operand []byte) error {
	cpu.Reg.Overflow = false
	return nil
}

func (cpu *CPU) cmp(inst *Instruction, operand []byte) error {
	v := cpu.load(inst.Mode, operand)
	cpu.Reg.Carry = cpu.Reg.A >= v
	cpu.updateNZ(cpu.Reg.A - v)
	return nil
}

func (cpu *CPU) cpx(inst *Instruction, operand []byte) error {
	v := cpu.load(inst.Mode, operand)
	cpu.Reg.Carry = cpu.Reg.X >= v
	cpu.updateNZ(cpu.Reg.X - v)
	return nil
}

func (cpu *CPU) cpy(inst *Instruction, operand []byte) error {
	v := cpu.load(inst.Mode, operand)
	cpu.Reg.Carry = cpu.Reg.Y >= v
	cpu.updateNZ(cpu.Reg.Y - v)
	return nil
}

func (cpu *CPU) dec(inst *Instruction, operand []byte) error {
	v := cpu.load(inst.Mode, operand) - 1
	cpu.updateNZ(v)
	cpu.store(inst.Mode, operand, v)
	return nil
}

func (cpu *CPU) dex(inst *Instruction, operand []byte) error {
	cpu.Reg.X--
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

func (cpu *CPU) dey(inst *Instruction, operand []byte) error {
	cpu.Reg.Y--
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

func (cpu *CPU) eor(inst *Instruction, operand []byte) error {
	cpu.Reg.A ^= cpu.load(inst.Mode, operand)
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

func (cpu *CPU) inc(inst *Instruction, operand []byte) error {
	v := cpu.load(inst.Mode, operand) + 1
	cpu.updateNZ(v)
	cpu.store(inst.Mode, operand, v)
	return nil
}

func (cpu *CPU) inx(inst *Instruction, operand []byte) error {
	cpu.Reg.X++
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

func (cpu *CPU) iny(inst *Instruction, operand []byte) error {
	cpu.Reg.Y++
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

func (cpu *CPU) jmp(inst *Instruction, operand []byte) error {
	cpu.Reg.PC = cpu.loadAddress(inst.Mode, operand)
	return nil
}

func (cpu *CPU) jsr(inst *Instruction, operand []byte) error {
	addr := cpu.loadAddress(inst.Mode, operand)
	if err := cpu.pushAddress(cpu.Reg.PC - 1); err != nil {
		return err
	}
	cpu.Reg.PC = addr
	return nil
}

func (cpu *CPU) lda(inst *Instruction, operand []byte) error {
	cpu.Reg.A = cpu.load(inst.Mode, operand)
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

func (cpu *CPU) ldx(inst *Instruction, operand []byte) error {
	cpu.Reg.X = cpu.load(inst.Mode, operand)
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

func (cpu *CPU) ldy(inst *Instruction, operand []byte) error {
	cpu.Reg.Y = cpu.load(inst.Mode, operand)
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

func (cpu *CPU) lsr(inst *Instruction, operand []byte) error {
	v := cpu.load(inst.Mode, operand)
	cpu.Reg.Carry = (v & 1) == 1
	v >>= 1
	cpu.updateNZ(v)
	cpu.store(inst.Mode, operand, v)
	return nil
}

func (cpu *CPU) nop(inst *Instruction, operand []byte) error {
	return nil
}

func (cpu *CPU) ora(inst *Instruction, operand []byte) error {
	cpu.Reg.A |= cpu.load(inst.Mode, operand)
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

func (cpu *CPU) pha(inst *Instruction, operand []byte) error {
	return cpu.push(cpu.Reg.A)
}

func (cpu *CPU) php(inst *Instruction, operand []byte) error {
	return cpu.push(cpu.Reg.SavePS(true))
}

func (cpu *CPU) pla(inst *Instruction, operand []byte) error {
	v, err := cpu.pop()
	if err != nil {
		return err
	}
	cpu.Reg.A = v
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

func (cpu *CPU) plp(inst *Instruction, operand []byte) error {
	v, err := cpu.pop()
	if err != nil {
		return err
	}
	cpu.Reg.RestorePS(v)
	return nil
}

func (cpu *CPU) rol(inst *Instruction, operand []byte) error {
	tmp := cpu.load(inst.Mode, operand)
	v := (tmp << 1) | boolToByte(cpu.Reg.Carry)
	cpu.Reg.Carry = (tmp & 0x80) != 0
	cpu.updateNZ(v)
	cpu.store(inst.Mode, operand, v)
	return nil
}

func (cpu *CPU) ror(inst *Instruction, operand []byte) error {
	tmp := cpu.load(inst.Mode, operand)
	v := (tmp >> 1) | (boolToByte(cpu.Reg.Carry) << 7)
	cpu.Reg.Carry = (tmp & 1) != 0
	cpu.updateNZ(v)
	cpu.store(inst.Mode, operand, v)
	return nil
}

func (cpu *CPU) rti(inst *Instruction, operand []byte) error {
	v, err := cpu.pop()
	if err != nil {
		return err
	}
	cpu.Reg.RestorePS(v)
	pc, err := cpu.popAddress()
	if err != nil {
		return err
	}
	cpu.Reg.PC = pc
	return nil
}

func (cpu *CPU) rts(inst *Instruction, operand []byte) error {
	addr, err := cpu.popAddress()
	if err != nil {
		return err
	}
	cpu.Reg.PC = addr + 1
	return nil
}

// Subtract with carry.
func (cpu *CPU) sbc(inst *Instruction, operand []byte) error {
	acc := uint32(cpu.Reg.A)
	sub := uint32(cpu.load(inst.Mode, operand))
	carry := uint32(boolToByte(cpu.Reg.Carry))
	v := 0xff + acc - sub + carry
	cpu.Reg.Carry = v >= 0x100
	cpu.Reg.Overflow = ((acc & 0x80) != (sub & 0x80)) && ((acc & 0x80) != (v & 0x80))
	cpu.Reg.A = byte(v)
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

func (cpu *CPU) sec(inst *Instruction, operand []byte) error {
	cpu.Reg.Carry = true
	return nil
}

func (cpu *CPU) sed(inst *Instruction, operand []byte) error {
	cpu.Reg.Decimal = true
	return nil
}

func (cpu *CPU) sei(inst *Instruction, operand []byte) error {
	cpu.Reg.InterruptDisable = true
	return nil
}

func (cpu *CPU) sta(inst *Instruction, operand []byte) error {
	cpu.store(inst.Mode, operand, cpu.Reg.A)
	return nil
}

func (cpu *CPU) stx(inst *Instruction, operand []byte) error {
	cpu.store(inst.Mode, operand, cpu.Reg.X)
	return nil
}

func (cpu *CPU) sty(inst *Instruction, operand []byte) error {
	cpu.store(inst.Mode, operand, cpu.Reg.Y)
	return nil
}

func (cpu *CPU) tax(inst *Instruction, operand []byte) error {
	cpu.Reg.X = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

func (cpu *CPU) tay(inst *Instruction, operand []byte) error {
	cpu.Reg.Y = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

func (cpu *CPU) tsx(inst *Instruction, operand []byte) error {
	cpu.Reg.X = cpu.Reg.SP
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

func (cpu *CPU) txa(inst *Instruction, operand []byte) error {
	cpu.Reg.A = cpu.Reg.X
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

func (cpu *CPU) txs(inst *Instruction, operand []byte) error {
	cpu.Reg.SP = cpu.Reg.X
	return nil
}

func (cpu *CPU) tya(inst *Instruction, operand []byte) error {
	cpu.Reg.A = cpu.Reg.Y
	cpu.updateNZ(cpu.Reg.A)
	return nil
}
