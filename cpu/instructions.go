// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "strings"

// An opsym is an internal symbol used to associate an opcode's data
// with its instruction handler.
type opsym byte

const (
	symADC opsym = iota
	symAND
	symASL
	symBCC
	symBCS
	symBEQ
	symBIT
	symBMI
	symBNE
	symBPL
	symBRK
	symBVC
	symBVS
	symCLC
	symCLD
	symCLI
	symCLV
	symCMP
	symCPX
	symCPY
	symDEC
	symDEX
	symDEY
	symEOR
	symINC
	symINX
	symINY
	symJMP
	symJSR
	symLDA
	symLDX
	symLDY
	symLSR
	symNOP
	symORA
	symPHA
	symPHP
	symPLA
	symPLP
	symROL
	symROR
	symRTI
	symRTS
	symSBC
	symSEC
	symSED
	symSEI
	symSTA
	symSTX
	symSTY
	symTAX
	symTAY
	symTSX
	symTXA
	symTXS
	symTYA
)

type instfunc func(c *CPU, inst *Instruction, operand []byte) error

// opcodeImpl associates a mnemonic symbol with its emulator handler.
type opcodeImpl struct {
	sym  opsym
	name string
	fn   instfunc
}

var impl = []opcodeImpl{
	{symADC, "ADC", (*CPU).adc},
	{symAND, "AND", (*CPU).and},
	{symASL, "ASL", (*CPU).asl},
	{symBCC, "BCC", (*CPU).bcc},
	{symBCS, "BCS", (*CPU).bcs},
	{symBEQ, "BEQ", (*CPU).beq},
	{symBIT, "BIT", (*CPU).bit},
	{symBMI, "BMI", (*CPU).bmi},
	{symBNE, "BNE", (*CPU).bne},
	{symBPL, "BPL", (*CPU).bpl},
	{symBRK, "BRK", (*CPU).brk},
	{symBVC, "BVC", (*CPU).bvc},
	{symBVS, "BVS", (*CPU).bvs},
	{symCLC, "CLC", (*CPU).clc},
	{symCLD, "CLD", (*CPU).cld},
	{symCLI, "CLI", (*CPU).cli},
	{symCLV, "CLV", (*CPU).clv},
	{symCMP, "CMP", (*CPU).cmp},
	{symCPX, "CPX", (*CPU).cpx},
	{symCPY, "CPY", (*CPU).cpy},
	{symDEC, "DEC", (*CPU).dec},
	{symDEX, "DEX", (*CPU).dex},
	{symDEY, "DEY", (*CPU).dey},
	{symEOR, "EOR", (*CPU).eor},
	{symINC, "INC", (*CPU).inc},
	{symINX, "INX", (*CPU).inx},
	{symINY, "INY", (*CPU).iny},
	{symJMP, "JMP", (*CPU).jmp},
	{symJSR, "JSR", (*CPU).jsr},
	{symLDA, "LDA", (*CPU).lda},
	{symLDX, "LDX", (*CPU).ldx},
	{symLDY, "LDY", (*CPU).ldy},
	{symLSR, "LSR", (*CPU).lsr},
	{symNOP, "NOP", (*CPU).nop},
	{symORA, "ORA", (*CPU).ora},
	{symPHA, "PHA", (*CPU).pha},
	{symPHP, "PHP", (*CPU).php},
	{symPLA, "PLA", (*CPU).pla},
	{symPLP, "PLP", (*CPU).plp},
	{symROL, "ROL", (*CPU).rol},
	{symROR, "ROR", (*CPU).ror},
	{symRTI, "RTI", (*CPU).rti},
	{symRTS, "RTS", (*CPU).rts},
	{symSBC, "SBC", (*CPU).sbc},
	{symSEC, "SEC", (*CPU).sec},
	{symSED, "SED", (*CPU).sed},
	{symSEI, "SEI", (*CPU).sei},
	{symSTA, "STA", (*CPU).sta},
	{symSTX, "STX", (*CPU).stx},
	{symSTY, "STY", (*CPU).sty},
	{symTAX, "TAX", (*CPU).tax},
	{symTAY, "TAY", (*CPU).tay},
	{symTSX, "TSX", (*CPU).tsx},
	{symTXA, "TXA", (*CPU).txa},
	{symTXS, "TXS", (*CPU).txs},
	{symTYA, "TYA", (*CPU).tya},
}

// Mode describes a memory addressing mode.
type Mode byte

// All addressing modes implemented by the NMOS 6502.
const (
	Immediate Mode = iota
	Implied
	Relative
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	Accumulator
)

// opcodeData describes one legal (mnemonic, mode) encoding.
type opcodeData struct {
	sym    opsym
	mode   Mode
	opcode byte
	length byte // opcode + operand, in bytes
}

// data enumerates every legal (mnemonic, mode, opcode) triple of the
// NMOS 6502 instruction set: 151 rows.
var data = []opcodeData{
	{symLDA, Immediate, 0xa9, 2},
	{symLDA, ZeroPage, 0xa5, 2},
	{symLDA, ZeroPageX, 0xb5, 2},
	{symLDA, Absolute, 0xad, 3},
	{symLDA, AbsoluteX, 0xbd, 3},
	{symLDA, AbsoluteY, 0xb9, 3},
	{symLDA, IndirectX, 0xa1, 2},
	{symLDA, IndirectY, 0xb1, 2},

	{symLDX, Immediate, 0xa2, 2},
	{symLDX, ZeroPage, 0xa6, 2},
	{symLDX, ZeroPageY, 0xb6, 2},
	{symLDX, Absolute, 0xae, 3},
	{symLDX, AbsoluteY, 0xbe, 3},

	{symLDY, Immediate, 0xa0, 2},
	{symLDY, ZeroPage, 0xa4, 2},
	{symLDY, ZeroPageX, 0xb4, 2},
	{symLDY, Absolute, 0xac, 3},
	{symLDY, AbsoluteX, 0xbc, 3},

	{symSTA, ZeroPage, 0x85, 2},
	{symSTA, ZeroPageX, 0x95, 2},
	{symSTA, Absolute, 0x8d, 3},
	{symSTA, AbsoluteX, 0x9d, 3},
	{symSTA, AbsoluteY, 0x99, 3},
	{symSTA, IndirectX, 0x81, 2},
	{symSTA, IndirectY, 0x91, 2},

	{symSTX, ZeroPage, 0x86, 2},
	{symSTX, ZeroPageY, 0x96, 2},
	{symSTX, Absolute, 0x8e, 3},

	{symSTY, ZeroPage, 0x84, 2},
	{symSTY, ZeroPageX, 0x94, 2},
	{symSTY, Absolute, 0x8c, 3},

	{symADC, Immediate, 0x69, 2},
	{symADC, ZeroPage, 0x65, 2},
	{symADC, ZeroPageX, 0x75, 2},
	{symADC, Absolute, 0x6d, 3},
	{symADC, AbsoluteX, 0x7d, 3},
	{symADC, AbsoluteY, 0x79, 3},
	{symADC, IndirectX, 0x61, 2},
	{symADC, IndirectY, 0x71, 2},

	{symSBC, Immediate, 0xe9, 2},
	{symSBC, ZeroPage, 0xe5, 2},
	{symSBC, ZeroPageX, 0xf5, 2},
	{symSBC, Absolute, 0xed, 3},
	{symSBC, AbsoluteX, 0xfd, 3},
	{symSBC, AbsoluteY, 0xf9, 3},
	{symSBC, IndirectX, 0xe1, 2},
	{symSBC, IndirectY, 0xf1, 2},

	{symCMP, Immediate, 0xc9, 2},
	{symCMP, ZeroPage, 0xc5, 2},
	{symCMP, ZeroPageX, 0xd5, 2},
	{symCMP, Absolute, 0xcd, 3},
	{symCMP, AbsoluteX, 0xdd, 3},
	{symCMP, AbsoluteY, 0xd9, 3},
	{symCMP, IndirectX, 0xc1, 2},
	{symCMP, IndirectY, 0xd1, 2},

	{symCPX, Immediate, 0xe0, 2},
	{symCPX, ZeroPage, 0xe4, 2},
	{symCPX, Absolute, 0xec, 3},

	{symCPY, Immediate, 0xc0, 2},
	{symCPY, ZeroPage, 0xc4, 2},
	{symCPY, Absolute, 0xcc, 3},

	{symBIT, ZeroPage, 0x24, 2},
	{symBIT, Absolute, 0x2c, 3},

	{symCLC, Implied, 0x18, 1},
	{symSEC, Implied, 0x38, 1},
	{symCLI, Implied, 0x58, 1},
	{symSEI, Implied, 0x78, 1},
	{symCLD, Implied, 0xd8, 1},
	{symSED, Implied, 0xf8, 1},
	{symCLV, Implied, 0xb8, 1},

	{symBCC, Relative, 0x90, 2},
	{symBCS, Relative, 0xb0, 2},
	{symBEQ, Relative, 0xf0, 2},
	{symBNE, Relative, 0xd0, 2},
	{symBMI, Relative, 0x30, 2},
	{symBPL, Relative, 0x10, 2},
	{symBVC, Relative, 0x50, 2},
	{symBVS, Relative, 0x70, 2},

	{symBRK, Implied, 0x00, 1},

	{symAND, Immediate, 0x29, 2},
	{symAND, ZeroPage, 0x25, 2},
	{symAND, ZeroPageX, 0x35, 2},
	{symAND, Absolute, 0x2d, 3},
	{symAND, AbsoluteX, 0x3d, 3},
	{symAND, AbsoluteY, 0x39, 3},
	{symAND, IndirectX, 0x21, 2},
	{symAND, IndirectY, 0x31, 2},

	{symORA, Immediate, 0x09, 2},
	{symORA, ZeroPage, 0x05, 2},
	{symORA, ZeroPageX, 0x15, 2},
	{symORA, Absolute, 0x0d, 3},
	{symORA, AbsoluteX, 0x1d, 3},
	{symORA, AbsoluteY, 0x19, 3},
	{symORA, IndirectX, 0x01, 2},
	{symORA, IndirectY, 0x11, 2},

	{symEOR, Immediate, 0x49, 2},
	{symEOR, ZeroPage, 0x45, 2},
	{symEOR, ZeroPageX, 0x55, 2},
	{symEOR, Absolute, 0x4d, 3},
	{symEOR, AbsoluteX, 0x5d, 3},
	{symEOR, AbsoluteY, 0x59, 3},
	{symEOR, IndirectX, 0x41, 2},
	{symEOR, IndirectY, 0x51, 2},

	{symINC, ZeroPage, 0xe6, 2},
	{symINC, ZeroPageX, 0xf6, 2},
	{symINC, Absolute, 0xee, 3},
	{symINC, AbsoluteX, 0xfe, 3},

	{symDEC, ZeroPage, 0xc6, 2},
	{symDEC, ZeroPageX, 0xd6, 2},
	{symDEC, Absolute, 0xce, 3},
	{symDEC, AbsoluteX, 0xde, 3},

	{symINX, Implied, 0xe8, 1},
	{symINY, Implied, 0xc8, 1},
	{symDEX, Implied, 0xca, 1},
	{symDEY, Implied, 0x88, 1},

	{symJMP, Absolute, 0x4c, 3},
	{symJMP, Indirect, 0x6c, 3},

	{symJSR, Absolute, 0x20, 3},
	{symRTS, Implied, 0x60, 1},
	{symRTI, Implied, 0x40, 1},

	{symNOP, Implied, 0xea, 1},

	{symTAX, Implied, 0xaa, 1},
	{symTXA, Implied, 0x8a, 1},
	{symTAY, Implied, 0xa8, 1},
	{symTYA, Implied, 0x98, 1},
	{symTXS, Implied, 0x9a, 1},
	{symTSX, Implied, 0xba, 1},

	{symPHA, Implied, 0x48, 1},
	{symPLA, Implied, 0x68, 1},
	{symPHP, Implied, 0x08, 1},
	{symPLP, Implied, 0x28, 1},

	{symASL, Accumulator, 0x0a, 1},
	{symASL, ZeroPage, 0x06, 2},
	{symASL, ZeroPageX, 0x16, 2},
	{symASL, Absolute, 0x0e, 3},
	{symASL, AbsoluteX, 0x1e, 3},

	{symLSR, Accumulator, 0x4a, 1},
	{symLSR, ZeroPage, 0x46, 2},
	{symLSR, ZeroPageX, 0x56, 2},
	{symLSR, Absolute, 0x4e, 3},
	{symLSR, AbsoluteX, 0x5e, 3},

	{symROL, Accumulator, 0x2a, 1},
	{symROL, ZeroPage, 0x26, 2},
	{symROL, ZeroPageX, 0x36, 2},
	{symROL, Absolute, 0x2e, 3},
	{symROL, AbsoluteX, 0x3e, 3},

	{symROR, Accumulator, 0x6a, 1},
	{symROR, ZeroPage, 0x66, 2},
	{symROR, ZeroPageX, 0x76, 2},
	{symROR, Absolute, 0x6e, 3},
	{symROR, AbsoluteX, 0x7e, 3},
}

// An Instruction describes a single (mnemonic, mode, opcode) triple.
// A zero-value Instruction (empty Name) marks one of the 105 opcode
// values the NMOS 6502 leaves undefined.
type Instruction struct {
	Name   string // all-caps mnemonic
	Mode   Mode   // addressing mode
	Opcode byte   // opcode byte
	Length byte   // opcode + operand size, in bytes
	fn     instfunc
}

// OperandSize returns the number of operand bytes following the opcode.
func (inst *Instruction) OperandSize() int {
	return int(inst.Length) - 1
}

// An InstructionSet is the full, pre-expanded 256-entry opcode decode
// table plus a name-indexed index of each mnemonic's addressing-mode
// variants, used by the assembler to pick an encoding.
type InstructionSet struct {
	instructions [256]Instruction
	variants     map[string][]*Instruction
}

// Lookup retrieves the instruction bound to an opcode byte. The
// returned Instruction has an empty Name if the opcode is undefined.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return &s.instructions[opcode]
}

// GetInstructions returns every addressing-mode variant defined for a
// mnemonic, or nil if the name isn't a known mnemonic.
func (s *InstructionSet) GetInstructions(name string) []*Instruction {
	return s.variants[strings.ToUpper(name)]
}

// Mnemonics returns every mnemonic defined in the instruction set.
func (s *InstructionSet) Mnemonics() []string {
	names := make([]string, 0, len(s.variants))
	for name := range s.variants {
		names = append(names, name)
	}
	return names
}

// Encode returns the opcode byte for a (mnemonic, mode) pair.
func (s *InstructionSet) Encode(name string, mode Mode) (byte, bool) {
	for _, inst := range s.variants[strings.ToUpper(name)] {
		if inst.Mode == mode {
			return inst.Opcode, true
		}
	}
	return 0, false
}

func newInstructionSet() *InstructionSet {
	set := &InstructionSet{
		variants: make(map[string][]*Instruction),
	}

	symToImpl := make(map[opsym]*opcodeImpl, len(impl))
	for i := range impl {
		symToImpl[impl[i].sym] = &impl[i]
	}

	for _, d := range data {
		inst := &set.instructions[d.opcode]
		im := symToImpl[d.sym]
		inst.Name = im.name
		inst.Mode = d.mode
		inst.Opcode = d.opcode
		inst.Length = d.length
		inst.fn = im.fn
		set.variants[inst.Name] = append(set.variants[inst.Name], inst)
	}

	return set
}

var defaultInstructionSet = newInstructionSet()

// GetInstructionSet returns the singleton NMOS 6502 instruction set.
func GetInstructionSet() *InstructionSet {
	return defaultInstructionSet
}

// modifiesPC reports whether an instruction's handler overwrites PC
// unconditionally, so Step must not apply its own post-increment.
// Conditional branches and JSR compute their target or return address
// relative to the already-advanced PC, so they are not listed here.
func modifiesPC(inst *Instruction) bool {
	switch inst.Name {
	case "JMP", "RTS", "RTI":
		return true
	}
	return false
}
