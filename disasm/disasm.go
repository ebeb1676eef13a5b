// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a disassembler for the NMOS 6502
// instruction set.
package disasm

import (
	"fmt"
	"strings"

	"github.com/hexbus/sixfiveohtwo/cpu"
)

// modeFormat gives the canonical operand syntax for each addressing
// mode, indexed by cpu.Mode.
var modeFormat = []string{
	"#$%s",    // Immediate
	"%s",      // Implied
	"$%s",     // Relative
	"$%s",     // ZeroPage
	"$%s,X",   // ZeroPageX
	"$%s,Y",   // ZeroPageY
	"$%s",     // Absolute
	"$%s,X",   // AbsoluteX
	"$%s,Y",   // AbsoluteY
	"($%s)",   // Indirect
	"($%s,X)", // IndirectX
	"($%s),Y", // IndirectY
	"A%s",     // Accumulator (no operand bytes, so %s is empty)
}

var hexDigits = "0123456789ABCDEF"

// hexString renders b as a big-endian hexadecimal string (the most
// significant byte of a little-endian operand is printed first, since
// 6502 assembly syntax writes addresses most-significant-digit-first).
func hexString(b []byte) string {
	buf := make([]byte, len(b)*2)
	j := len(buf) - 1
	for _, n := range b {
		buf[j] = hexDigits[n&0xf]
		buf[j-1] = hexDigits[n>>4]
		j -= 2
	}
	return string(buf)
}

// Instruction is one disassembled line: the address it starts at, its
// rendered mnemonic/operand text, and the address of the instruction
// that follows it.
type Instruction struct {
	Addr uint16
	Text string
	Next uint16
}

// DisassembleOne disassembles the single instruction at addr. An
// opcode with no defined mnemonic is rendered as a raw data byte,
// ".BYTE $xx", and consumes exactly one byte.
func DisassembleOne(m cpu.Memory, addr uint16) Instruction {
	set := cpu.GetInstructionSet()
	opcode := m.LoadByte(addr)
	inst := set.Lookup(opcode)

	if inst.Name == "" {
		return Instruction{
			Addr: addr,
			Text: fmt.Sprintf(".BYTE $%02X", opcode),
			Next: addr + 1,
		}
	}

	operand := make([]byte, inst.OperandSize())
	m.LoadBytes(addr+1, operand)

	if inst.Mode == cpu.Relative {
		disp := int(operand[0])
		if disp > 0x7f {
			disp -= 256
		}
		target := int(addr) + int(inst.Length) + disp
		operand = []byte{byte(target), byte(target >> 8)}
	}

	format := "%-4s " + modeFormat[inst.Mode]
	text := strings.TrimRight(fmt.Sprintf(format, inst.Name, hexString(operand)), " ")

	return Instruction{
		Addr: addr,
		Text: text,
		Next: addr + uint16(inst.Length),
	}
}

// Disassemble renders count instructions starting at addr, one per
// line, separated by newlines.
func Disassemble(m cpu.Memory, addr uint16, count int) string {
	var lines []string
	for i := 0; i < count; i++ {
		inst := DisassembleOne(m, addr)
		lines = append(lines, fmt.Sprintf("$%04X  %s", inst.Addr, inst.Text))
		addr = inst.Next
	}
	return strings.Join(lines, "\n")
}
