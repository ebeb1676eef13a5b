// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"
	"fmt"
)

// ErrBreak is returned by Step when it executes a BRK instruction. It is
// not a failure: Run treats it as a clean, requested stop.
var ErrBreak = errors.New("brk")

// IllegalOpcodeError is returned when Step fetches a byte that isn't any
// defined NMOS 6502 opcode.
type IllegalOpcodeError struct {
	PC     uint16
	Opcode byte
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode $%02X at $%04X", e.Opcode, e.PC)
}

// StackOverflowError is returned when a push would wrap SP past $00.
type StackOverflowError struct {
	PC uint16
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow at $%04X", e.PC)
}

// StackUnderflowError is returned when a pop would wrap SP past $FF.
type StackUnderflowError struct {
	PC uint16
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("stack underflow at $%04X", e.PC)
}
