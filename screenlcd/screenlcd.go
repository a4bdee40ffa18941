// Copyright 2026 The GPIOLCD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screenlcd emulates an HD44780 character LCD module at the GPIO
// bus level and renders it to the terminal (stdout) using ANSI color
// codes.
//
// It exposes a set of virtual output pins (RS, RW, E, backlight and
// DB4..DB7). A driver wired to them is decoded exactly like the real
// chip: data is sampled on the falling edge of E, the power-on state is
// the 8-bit interface, and the 4-bit mode is entered through the usual
// function-set sequence.
//
// Useful while you are waiting for your LCD module to come by mail, and
// for testing a driver without hardware.
package screenlcd

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// HD44780 instruction decoding.
const (
	cmdClear        = 0x01
	cmdHome         = 0x02
	cmdEntryMode    = 0x04
	cmdDisplayCtrl  = 0x08
	cmdMove         = 0x10
	cmdFunctionSet  = 0x20
	cmdSetCGRAMAddr = 0x40
	cmdSetDDRAMAddr = 0x80

	row1Offset = 0x40

	ddramSize = 0x80
	maxCells  = 80
)

// Opts represents the options available for the emulated module.
type Opts struct {
	// Rows and Cols define the emulated geometry, under the same
	// constraints as the real module: 1, 2 or 4 rows, Rows*Cols <= 80.
	Rows, Cols int

	// W receives the terminal rendering. Defaults to a colorable stdout.
	W io.Writer

	// Palette used for the backlight blocks.
	Palette *ansi256.Palette
}

// Dev is an HD44780 module emulator that outputs to the console.
type Dev struct {
	rows, cols int
	w          io.Writer
	palette    ansi256.Palette

	pins [pinCount]*pin

	// Controller state.
	mode8      bool
	haveNibble bool
	nibble     byte
	ddram      [ddramSize]byte
	addr       int
	increment  bool
	on         bool
	cursor     bool
	blink      bool
	backlight  bool

	drawn bool
	buf   bytes.Buffer
}

// New returns a Dev that displays at the console.
//
// Permits local testing of LCD output without the hardware.
func New(opts *Opts) (*Dev, error) {
	switch opts.Rows {
	case 1, 2, 4:
	default:
		return nil, fmt.Errorf("screenlcd: unsupported number of lines %d", opts.Rows)
	}
	if opts.Cols <= 0 || opts.Rows*opts.Cols > maxCells {
		return nil, fmt.Errorf("screenlcd: unsupported number of columns %d", opts.Cols)
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{
		rows:    opts.Rows,
		cols:    opts.Cols,
		w:       w,
		palette: *p,
		mode8:   true,
	}
	for i := range d.ddram {
		d.ddram[i] = ' '
	}
	d.makePins()
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ScreenLCD{%dx%d}", d.cols, d.rows)
}

// Halt implements conn.Resource.
//
// It resets the terminal so it is not left in a colored state.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// latch samples the data lines on the falling edge of E, mirroring the
// controller. Strobes with RW high would be reads; the emulated module has
// nothing to say back, so they are ignored.
func (d *Dev) latch() {
	if d.pins[pinRW].level == gpio.High {
		return
	}
	var nib byte
	for i := 0; i < 4; i++ {
		if d.pins[pinDB4+i].level == gpio.High {
			nib |= 1 << uint(i)
		}
	}
	isData := d.pins[pinRS].level == gpio.High

	if d.mode8 {
		// Only DB4..DB7 are wired; the low nibble reads as zero.
		d.exec(isData, nib<<4)
		return
	}
	if !d.haveNibble {
		d.nibble = nib
		d.haveNibble = true
		return
	}
	d.haveNibble = false
	d.exec(isData, d.nibble<<4|nib)
}

// exec executes one assembled instruction or data byte.
func (d *Dev) exec(isData bool, b byte) {
	if isData {
		d.writeCell(b)
		return
	}
	switch {
	case b >= cmdSetDDRAMAddr:
		d.addr = int(b & 0x7f)
	case b >= cmdSetCGRAMAddr:
		// Custom glyphs are not emulated.
	case b >= cmdFunctionSet:
		d.mode8 = b&0x10 != 0
		// A mode change resynchronizes nibble pairing.
		d.haveNibble = false
	case b >= cmdMove:
		if b&0x08 != 0 {
			// Display shift, not supported by the emulated module.
			return
		}
		if b&0x04 != 0 {
			d.addr = (d.addr + 1) & (ddramSize - 1)
		} else {
			d.addr = (d.addr - 1) & (ddramSize - 1)
		}
	case b >= cmdDisplayCtrl:
		d.on = b&0x04 != 0
		d.cursor = b&0x02 != 0
		d.blink = b&0x01 != 0
		d.refresh()
	case b >= cmdEntryMode:
		d.increment = b&0x02 != 0
	case b >= cmdHome:
		d.addr = 0
		d.refresh()
	case b == cmdClear:
		for i := range d.ddram {
			d.ddram[i] = ' '
		}
		d.addr = 0
		d.increment = true
		d.refresh()
	}
}

// writeCell stores one character at the address counter, which then wraps
// around the DDRAM like the real controller's.
func (d *Dev) writeCell(b byte) {
	d.ddram[d.addr&(ddramSize-1)] = b
	if d.increment {
		d.addr = (d.addr + 1) & (ddramSize - 1)
	} else {
		d.addr = (d.addr - 1) & (ddramSize - 1)
	}
	d.refresh()
}

// cellAddr maps a visible cell to its DDRAM address using the two-line
// controller convention: odd rows start at 0x40, rows 2 and 3 continue
// rows 0 and 1 offset by the column count.
func (d *Dev) cellAddr(row, col int) int {
	addr := col
	if row == 1 || row == 3 {
		addr += row1Offset
	}
	if row == 2 || row == 3 {
		addr += d.cols
	}
	return addr
}

func (d *Dev) rowText(row int) []byte {
	line := make([]byte, d.cols)
	for c := 0; c < d.cols; c++ {
		line[c] = d.ddram[d.cellAddr(row, c)]
	}
	return line
}

// Text returns the visible character matrix, one string per row. The
// display-off state does not blank it; like the real module, content is
// retained.
func (d *Dev) Text() []string {
	rows := make([]string, d.rows)
	for r := 0; r < d.rows; r++ {
		rows[r] = string(d.rowText(r))
	}
	return rows
}

// Backlight reports the level of the backlight line.
func (d *Dev) Backlight() bool {
	return d.backlight
}

func (d *Dev) bezelColor() color.NRGBA {
	if d.backlight {
		return color.NRGBA{R: 80, G: 220, B: 100, A: 255}
	}
	return color.NRGBA{R: 16, G: 48, B: 24, A: 255}
}

// refresh redraws the whole module at the console.
//
// This code is designed to minimize the amount of memory allocated per
// call.
func (d *Dev) refresh() {
	d.buf.Reset()
	if d.drawn {
		fmt.Fprintf(&d.buf, "\033[%dA\r", d.rows)
	} else {
		d.drawn = true
	}
	edge := d.palette.Block(d.bezelColor())
	for r := 0; r < d.rows; r++ {
		_, _ = d.buf.WriteString("\033[0m")
		_, _ = d.buf.WriteString(edge)
		if d.on {
			_, _ = d.buf.Write(d.rowText(r))
		} else {
			for c := 0; c < d.cols; c++ {
				_ = d.buf.WriteByte(' ')
			}
		}
		_, _ = d.buf.WriteString(edge)
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, _ = d.buf.WriteTo(d.w)
}

var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
