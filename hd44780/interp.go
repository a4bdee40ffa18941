// Copyright 2026 The GPIOLCD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

const asciiEscape = 0x1b

// Interpreter translates a character stream into display operations. It
// understands a small set of ASCII control characters plus two escape
// sequences: ESC R resets the display and ESC H homes the cursor. Anything
// else that is not printable ASCII is silently dropped.
type Interpreter struct {
	dev *Dev
	esc bool
}

// NewInterpreter returns an Interpreter feeding dev.
func NewInterpreter(dev *Dev) *Interpreter {
	return &Interpreter{dev: dev}
}

// Consume processes a single input character.
func (in *Interpreter) Consume(c byte) {
	if in.esc {
		switch c {
		case 'R':
			in.dev.Reset()
		case 'H':
			in.dev.Home()
		}
		in.esc = false
		return
	}

	if c == asciiEscape {
		in.esc = true
		return
	}

	switch c {
	case '\n':
		in.dev.Newline()
	case '\r':
		in.dev.CarriageReturn()
	case '\t':
		in.dev.Tab()
	case '\a':
		in.dev.Flash()
	case '\b':
		in.dev.Backspace()
	case '\f':
		in.dev.Clear()
	default:
		if c >= 0x20 && c < 0x7f {
			in.dev.WriteChar(c)
		}
	}
}

// Write consumes p one character at a time. It never fails; the underlying
// bus is write-only and errors are handled by the device.
func (in *Interpreter) Write(p []byte) (int, error) {
	for _, c := range p {
		in.Consume(c)
	}
	return len(p), nil
}
