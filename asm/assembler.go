// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements a one-pass assembler for the NMOS 6502
// instruction set: a lexer, a single-pass instruction encoder with
// deferred label resolution, and a binary image format for persisting
// assembled programs.
package asm

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/hexbus/sixfiveohtwo/cpu"
)

// Origin is the fixed address the assembler loads code at.
const Origin = 0x0600

type patchWidth byte

const (
	patch1Byte patchWidth = iota
	patch2Byte
)

type patchSite struct {
	name  string
	pc    uint16
	width patchWidth
	line  int
}

type labelDef struct {
	pc   uint16
	line int
}

// Assembly is the result of a successful Assemble call.
type Assembly struct {
	Code        []byte
	NumBytes    int
	NumCommands int
	Warnings    []Warning
}

// Assembler holds the state of a single Assemble call: the token
// stream, the write cursor, and the label/patch bookkeeping needed to
// resolve forward references once the whole source has been scanned.
type Assembler struct {
	Trace io.Writer // optional assembly trace, nil to disable

	toks    []token
	pos     int
	code    []byte
	pc      uint16
	labels   map[string]labelDef
	patches  []patchSite
	warnings []Warning
	instSet  *cpu.InstructionSet
}

// Assemble parses 6502 assembly source from r and encodes it into a
// byte image starting at Origin.
func Assemble(r io.Reader) (Assembly, error) {
	src, err := ioutil.ReadAll(r)
	if err != nil {
		return Assembly{}, err
	}
	return AssembleString(string(src), nil)
}

// AssembleString parses source text directly, optionally tracing each
// assembled line to w.
func AssembleString(src string, w io.Writer) (Assembly, error) {
	toks, err := lex(src)
	if err != nil {
		return Assembly{}, err
	}

	a := &Assembler{
		Trace:   w,
		toks:    toks,
		pc:      Origin,
		labels:  make(map[string]labelDef),
		instSet: cpu.GetInstructionSet(),
	}

	numCommands, err := a.run()
	if err != nil {
		return Assembly{}, err
	}

	if err := a.resolvePatches(); err != nil {
		return Assembly{}, err
	}

	return Assembly{
		Code:        a.code,
		NumBytes:    len(a.code),
		NumCommands: numCommands,
		Warnings:    a.warnings,
	}, nil
}

func (a *Assembler) logLine(format string, args ...interface{}) {
	if a.Trace != nil {
		fmt.Fprintf(a.Trace, format+"\n", args...)
	}
}

func (a *Assembler) peek() token  { return a.toks[a.pos] }
func (a *Assembler) next() token  { t := a.toks[a.pos]; a.pos++; return t }

func (a *Assembler) emit(b ...byte) {
	a.code = append(a.code, b...)
	a.pc += uint16(len(b))
}

func (a *Assembler) run() (int, error) {
	numCommands := 0
	for a.peek().kind != tokEOF {
		t := a.peek()
		switch {
		case t.kind == tokIdentifier && a.toks[a.pos+1].kind == tokColon:
			a.next()
			a.next()
			if _, dup := a.labels[t.text]; dup {
				return numCommands, &DuplicateLabelError{Line: t.line, Label: t.text}
			}
			a.labels[t.text] = labelDef{pc: a.pc, line: t.line}
		case t.kind == tokMnemonic:
			a.next()
			if err := a.assembleInstruction(t); err != nil {
				return numCommands, err
			}
			numCommands++
		default:
			return numCommands, &LexError{Line: t.line, Msg: "expected a label or mnemonic"}
		}
	}
	return numCommands, nil
}

func (a *Assembler) assembleInstruction(mnem token) error {
	mode, operand, err := a.parseOperand(mnem)
	if err != nil {
		return err
	}

	opcode, ok := a.instSet.Encode(mnem.text, mode)
	if !ok {
		return &UnsupportedAddressingModeError{Line: mnem.line, Mnemonic: mnem.text}
	}

	startPC := a.pc
	a.emit(opcode)
	a.logLine("$%04X  %-4s %v", startPC, mnem.text, operand)

	switch mode {
	case cpu.Implied, cpu.Accumulator:
		// no operand bytes
	case cpu.Relative:
		if operand.label != "" {
			a.patches = append(a.patches, patchSite{name: operand.label, pc: a.pc, width: patch1Byte, line: mnem.line})
			a.emit(0)
		} else {
			disp, err := relativeDisplacement(a.pc+1, operand.value)
			if err != nil {
				return &BranchOutOfRangeError{Line: mnem.line, Displacement: disp}
			}
			a.emit(byte(int8(disp)))
		}
	case cpu.Immediate, cpu.ZeroPage, cpu.ZeroPageX, cpu.ZeroPageY, cpu.IndirectX, cpu.IndirectY:
		if operand.value > 0xff {
			a.warnings = append(a.warnings, Warning{Line: mnem.line, Msg: "literal truncated to one byte"})
		}
		a.emit(byte(operand.value))
	case cpu.Absolute, cpu.AbsoluteX, cpu.AbsoluteY, cpu.Indirect:
		if operand.label != "" {
			a.patches = append(a.patches, patchSite{name: operand.label, pc: a.pc, width: patch2Byte, line: mnem.line})
			a.emit(0, 0)
		} else {
			if operand.value > 0xffff {
				a.warnings = append(a.warnings, Warning{Line: mnem.line, Msg: "literal truncated to two bytes"})
			}
			a.emit(byte(operand.value), byte(operand.value>>8))
		}
	}
	return nil
}

func (a *Assembler) resolvePatches() error {
	for _, p := range a.patches {
		label, ok := a.labels[p.name]
		if !ok {
			return &UndefinedLabelError{Line: p.line, Label: p.name}
		}
		switch p.width {
		case patch1Byte:
			disp, err := relativeDisplacement(p.pc+1, int(label.pc))
			if err != nil {
				return &BranchOutOfRangeError{Line: p.line, Displacement: disp}
			}
			a.code[p.pc-Origin] = byte(int8(disp))
		case patch2Byte:
			a.code[p.pc-Origin] = byte(label.pc)
			a.code[p.pc-Origin+1] = byte(label.pc >> 8)
		}
	}
	return nil
}

// relativeDisplacement computes the signed branch displacement from
// base (the address of the byte after the displacement operand) to
// target, and reports whether it fits in a signed byte.
func relativeDisplacement(base uint16, target int) (int, error) {
	disp := target - int(base)
	if disp < -128 || disp > 127 {
		return disp, fmt.Errorf("out of range")
	}
	return disp, nil
}
