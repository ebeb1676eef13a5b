// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "fmt"

// LexError is returned when the source text contains a token the
// lexer cannot classify.
type LexError struct {
	Line int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// UnsupportedAddressingModeError is returned when a mnemonic's operand
// syntax doesn't match any addressing mode the mnemonic supports.
type UnsupportedAddressingModeError struct {
	Line     int
	Mnemonic string
}

func (e *UnsupportedAddressingModeError) Error() string {
	return fmt.Sprintf("line %d: %s does not support this addressing mode", e.Line, e.Mnemonic)
}

// UndefinedLabelError is returned when a patch site's label is never
// defined anywhere in the source.
type UndefinedLabelError struct {
	Line  int
	Label string
}

func (e *UndefinedLabelError) Error() string {
	return fmt.Sprintf("line %d: undefined label %q", e.Line, e.Label)
}

// DuplicateLabelError is returned when a label is defined more than
// once.
type DuplicateLabelError struct {
	Line  int
	Label string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("line %d: label %q already defined", e.Line, e.Label)
}

// BranchOutOfRangeError is returned when a relative branch's target
// is more than 128 bytes behind or 127 bytes ahead of the address
// following the branch instruction.
type BranchOutOfRangeError struct {
	Line         int
	Displacement int
}

func (e *BranchOutOfRangeError) Error() string {
	return fmt.Sprintf("line %d: branch displacement %d out of range", e.Line, e.Displacement)
}

// ImageError is returned by DecodeImage when a binary image's header
// doesn't match its body.
type ImageError struct {
	Msg string
}

func (e *ImageError) Error() string {
	return "malformed image: " + e.Msg
}

// Warning is a non-fatal assembler diagnostic, collected in
// Assembly.Warnings rather than aborting assembly.
type Warning struct {
	Line int
	Msg  string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Msg)
}
