// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "github.com/hexbus/sixfiveohtwo/cpu"

// operand is the parsed form of an instruction's operand: either a
// resolved numeric value or an as-yet-unresolved label reference.
type operand struct {
	value int
	label string
}

var branchMnemonics = map[string]bool{
	"BCC": true, "BCS": true, "BEQ": true, "BNE": true,
	"BMI": true, "BPL": true, "BVC": true, "BVS": true,
}

// parseOperand classifies the addressing mode of the instruction
// starting at the current token position and consumes its operand
// tokens, per the assembler's addressing-mode decision table.
func (a *Assembler) parseOperand(mnem token) (cpu.Mode, operand, error) {
	t := a.peek()

	switch t.kind {
	case tokHash:
		a.next()
		num := a.next()
		if num.kind != tokNumber {
			return 0, operand{}, &LexError{Line: num.line, Msg: "expected a number after '#'"}
		}
		return cpu.Immediate, operand{value: num.value}, nil

	case tokLParen:
		a.next()
		num := a.next()
		if num.kind == tokIdentifier {
			if a.next().kind != tokRParen {
				return 0, operand{}, &LexError{Line: num.line, Msg: "expected ')'"}
			}
			return cpu.Indirect, operand{label: num.text}, nil
		}
		if num.kind != tokNumber {
			return 0, operand{}, &LexError{Line: num.line, Msg: "expected a number or label after '('"}
		}
		if a.peek().kind == tokComma {
			a.next()
			if a.peek().kind != tokIndexX {
				return 0, operand{}, &LexError{Line: num.line, Msg: "expected ',X' inside parens"}
			}
			a.next()
			if a.next().kind != tokRParen {
				return 0, operand{}, &LexError{Line: num.line, Msg: "expected ')'"}
			}
			return cpu.IndirectX, operand{value: num.value}, nil
		}
		if a.next().kind != tokRParen {
			return 0, operand{}, &LexError{Line: num.line, Msg: "expected ')'"}
		}
		if a.peek().kind == tokComma {
			a.next()
			if a.peek().kind != tokIndexY {
				return 0, operand{}, &LexError{Line: num.line, Msg: "expected ',Y' after '(...)'"}
			}
			a.next()
			return cpu.IndirectY, operand{value: num.value}, nil
		}
		return cpu.Indirect, operand{value: num.value}, nil

	case tokAccumulator:
		a.next()
		return cpu.Accumulator, operand{}, nil

	case tokNumber:
		a.next()
		if a.peek().kind == tokComma {
			a.next()
			idx := a.next()
			switch idx.kind {
			case tokIndexX:
				if t.value <= 255 {
					return cpu.ZeroPageX, operand{value: t.value}, nil
				}
				return cpu.AbsoluteX, operand{value: t.value}, nil
			case tokIndexY:
				if t.value <= 255 {
					return cpu.ZeroPageY, operand{value: t.value}, nil
				}
				return cpu.AbsoluteY, operand{value: t.value}, nil
			default:
				return 0, operand{}, &LexError{Line: idx.line, Msg: "expected ',X' or ',Y'"}
			}
		}
		if branchMnemonics[mnem.text] {
			return cpu.Relative, operand{value: t.value}, nil
		}
		if t.value <= 255 {
			return cpu.ZeroPage, operand{value: t.value}, nil
		}
		return cpu.Absolute, operand{value: t.value}, nil

	case tokIdentifier:
		if a.toks[a.pos+1].kind == tokColon {
			// a label definition starts the next statement
			return cpu.Implied, operand{}, nil
		}
		a.next()
		if branchMnemonics[mnem.text] {
			return cpu.Relative, operand{label: t.text}, nil
		}
		return cpu.Absolute, operand{label: t.text}, nil

	default:
		return cpu.Implied, operand{}, nil
	}
}
