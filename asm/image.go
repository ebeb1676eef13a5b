// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"encoding/binary"
	"io/ioutil"
)

// EncodeImage renders an assembled program as a binary image: two
// little-endian uint32 counts (byte length, instruction count) followed
// by the program bytes. There is no magic number and no version field.
func EncodeImage(a Assembly) []byte {
	b := make([]byte, 8+len(a.Code))
	binary.LittleEndian.PutUint32(b[0:4], uint32(a.NumBytes))
	binary.LittleEndian.PutUint32(b[4:8], uint32(a.NumCommands))
	copy(b[8:], a.Code)
	return b
}

// DecodeImage parses a binary image produced by EncodeImage.
func DecodeImage(b []byte) (numBytes, numCommands uint32, code []byte, err error) {
	if len(b) < 8 {
		return 0, 0, nil, &ImageError{Msg: "header truncated"}
	}
	numBytes = binary.LittleEndian.Uint32(b[0:4])
	numCommands = binary.LittleEndian.Uint32(b[4:8])
	body := b[8:]
	if uint32(len(body)) != numBytes {
		return 0, 0, nil, &ImageError{Msg: "body length does not match header"}
	}
	code = make([]byte, len(body))
	copy(code, body)
	return numBytes, numCommands, code, nil
}

// SaveImageFile writes the binary image of an assembled program to
// path.
func SaveImageFile(path string, a Assembly) error {
	return ioutil.WriteFile(path, EncodeImage(a), 0644)
}

// LoadImageFile reads and decodes a binary image previously written by
// SaveImageFile.
func LoadImageFile(path string) (numBytes, numCommands uint32, code []byte, err error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, 0, nil, err
	}
	return DecodeImage(b)
}

// AssembleFile reads 6502 assembly source from path and assembles it.
func AssembleFile(path string) (Assembly, error) {
	src, err := ioutil.ReadFile(path)
	if err != nil {
		return Assembly{}, err
	}
	return AssembleString(string(src), nil)
}
