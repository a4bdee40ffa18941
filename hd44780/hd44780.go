// Copyright 2026 The GPIOLCD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 controls the Hitachi LCD display chipset HD-44780 wired
// to discrete GPIO lines using the 4-bit data interface.
//
// The driver never reads from the device and never checks the busy flag.
// Instead it uses fixed delays to wait for instruction completions, so all
// operations are open-loop: a failure to set a line is logged and the
// transmission continues to completion.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Font selects the character glyph size of the connected module.
type Font byte

const (
	// Font5x8 is the common small font.
	Font5x8 Font = iota
	// Font5x10 is the large font found on some 1-line modules.
	Font5x10
)

// Command is a semantic display operation understood by Dev.Command.
type Command int

const (
	// Reset runs the full manual reset and reconfigure sequence per the
	// datasheet, ending with a cleared display.
	Reset Command = iota
	// Backspace erases the cell left of the cursor. At column 0 it
	// degrades to Flash.
	Backspace
	// Clear clears all character cells and homes the cursor.
	Clear
	// Newline pads the rest of the current row with spaces and moves to
	// the start of the next row, if any.
	Newline
	// CarriageReturn moves the cursor to the start of the current row.
	CarriageReturn
	// Home moves the cursor to (0,0) without clearing content.
	Home
	// Tab advances the cursor to the next multiple of 8 columns.
	Tab
	// Flash toggles the display off and on a couple of times.
	Flash
)

// HD44780 instruction set.
const (
	cmdClear = 0x01

	cmdHome = 0x02

	cmdEntryMode   = 0x04
	entryIncrement = 0x02

	cmdDisplayCtrl = 0x08
	displayOn      = 0x04
	cursorOn       = 0x02
	blinkOn        = 0x01

	cmdMove    = 0x10
	moveCursor = 0x00
	moveLeft   = 0x00

	cmdFunctionSet = 0x20
	mode8Bit       = 0x10
	mode2Lines     = 0x08
	modeLargeFont  = 0x04

	cmdSetDDRAMAddr = 0x80

	// DDRAM offset of the second controller line; rows 1 and 3 live there.
	row1Offset = 0x40
)

// maxCells is the DDRAM capacity shared by all supported geometries.
const maxCells = 80

// Opts holds the configuration of the display and its wiring. It is
// consulted at construction time only.
type Opts struct {
	// RS, RW and E are the register-select, read/write and enable lines.
	RS, RW, E gpio.PinOut
	// DB are the four data lines, wired to DB4..DB7 on the module.
	DB [4]gpio.PinOut
	// BL drives the backlight control circuit. Optional unless Backlight
	// is set.
	BL gpio.PinOut

	// Rows is the number of display lines, one of 1, 2 or 4.
	Rows int
	// Cols is the number of characters per line. Rows*Cols must not
	// exceed 80.
	Cols int

	// Font selects the glyph size.
	Font Font
	// Cursor enables the underline cursor.
	Cursor bool
	// Blink enables cursor blinking.
	Blink bool
	// Backlight turns the backlight on at initialization.
	Backlight bool

	// Logger receives debug and warning output. Defaults to the logrus
	// standard logger.
	Logger logrus.Ext1FieldLogger
}

// ValidateGeometry checks the display geometry alone. It is usable before
// any GPIO line has been acquired, so callers can reject a bad
// configuration without touching the hardware.
func (o *Opts) ValidateGeometry() error {
	switch o.Rows {
	case 1, 2, 4:
	default:
		return fmt.Errorf("hd44780: unsupported number of lines %d", o.Rows)
	}
	if o.Cols <= 0 || o.Rows*o.Cols > maxCells {
		return fmt.Errorf("hd44780: unsupported number of columns %d", o.Cols)
	}
	return nil
}

// Validate checks the display geometry and wiring. New calls it once the
// lines are assigned.
func (o *Opts) Validate() error {
	if err := o.ValidateGeometry(); err != nil {
		return err
	}
	for _, p := range []struct {
		name string
		pin  gpio.PinOut
	}{
		{"RS", o.RS},
		{"RW", o.RW},
		{"E", o.E},
		{"DB4", o.DB[0]},
		{"DB5", o.DB[1]},
		{"DB6", o.DB[2]},
		{"DB7", o.DB[3]},
	} {
		if p.pin == nil {
			return fmt.Errorf("hd44780: %s pin is not specified", p.name)
		}
	}
	if o.Backlight && o.BL == nil {
		return fmt.Errorf("hd44780: backlight pin is not specified")
	}
	return nil
}

// Dev is a handle to an HD44780 compatible display. It is the single
// source of truth for the cursor position and must not be used
// concurrently.
type Dev struct {
	opts Opts
	log  logrus.Ext1FieldLogger

	row, col int

	// sleep stands in for the fixed datasheet delays; tests substitute a
	// virtual clock.
	sleep func(time.Duration)
}

// New returns a Dev driving the display described by opts, fully reset and
// reconfigured. The lines are expected to be already acquired as outputs;
// Halt releases them.
func New(opts *Opts) (*Dev, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	d := &Dev{
		opts:  *opts,
		log:   opts.Logger,
		sleep: time.Sleep,
	}
	if d.log == nil {
		d.log = logrus.StandardLogger()
	}
	d.init()
	return d, nil
}

func (d *Dev) init() {
	for _, p := range d.pins() {
		if p != nil {
			d.setPin(p, gpio.Low)
		}
	}
	d.sleep(20 * time.Millisecond)
	d.Reset()
	if d.opts.Backlight {
		d.setPin(d.opts.BL, gpio.High)
	}
}

func (d *Dev) pins() []gpio.PinOut {
	return []gpio.PinOut{
		d.opts.RS, d.opts.RW, d.opts.E, d.opts.BL,
		d.opts.DB[0], d.opts.DB[1], d.opts.DB[2], d.opts.DB[3],
	}
}

// Rows returns the number of display lines.
func (d *Dev) Rows() int {
	return d.opts.Rows
}

// Cols returns the number of characters per line.
func (d *Dev) Cols() int {
	return d.opts.Cols
}

// CursorPosition returns the current cursor row and column. The column may
// equal Cols when the cursor is pinned at the right edge; writes there are
// dropped until the cursor is repositioned.
func (d *Dev) CursorPosition() (row, col int) {
	return d.row, d.col
}

func (d *Dev) String() string {
	return fmt.Sprintf("hd44780.Dev{%d rows, %d cols}", d.opts.Rows, d.opts.Cols)
}

// Command performs one semantic display operation. Unknown values are
// logged and ignored.
func (d *Dev) Command(c Command) {
	switch c {
	case Reset:
		d.Reset()
	case Backspace:
		d.Backspace()
	case Clear:
		d.Clear()
	case Newline:
		d.Newline()
	case CarriageReturn:
		d.CarriageReturn()
	case Home:
		d.Home()
	case Tab:
		d.Tab()
	case Flash:
		d.Flash()
	default:
		d.log.Warnf("hd44780: unknown command 0x%x", int(c))
	}
}

// Reset runs the full manual reset and reconfigure sequence as per the
// datasheet and leaves the display cleared with the cursor at (0,0).
func (d *Dev) Reset() {
	font := "5x8"
	if d.opts.Font == Font5x10 {
		font = "5x10"
	}
	d.log.Debugf("hd44780: reset to 4-bit interface, %d lines, %s font, cursor=%t blink=%t",
		d.opts.Rows, font, d.opts.Cursor, d.opts.Blink)

	// This needs to be repeated three times to guarantee a state where
	// the desired mode can be configured.
	d.outputHighNibble(regCommand, cmdFunctionSet|mode8Bit)
	d.sleep(10 * time.Millisecond)
	d.outputHighNibble(regCommand, cmdFunctionSet|mode8Bit)
	d.sleep(time.Millisecond)
	d.outputHighNibble(regCommand, cmdFunctionSet|mode8Bit)
	d.sleep(time.Millisecond)

	val := byte(cmdFunctionSet)
	if d.opts.Rows != 1 {
		val |= mode2Lines
	}
	if d.opts.Font == Font5x10 {
		val |= modeLargeFont
	}

	// At this point the display is in 8-bit mode; a single high-nibble
	// write switches it to 4-bit mode.
	d.outputHighNibble(regCommand, val)
	d.output(regCommand, val)
	d.sleep(10 * time.Millisecond)

	d.output(regCommand, cmdDisplayCtrl)
	d.sleep(time.Millisecond)
	d.output(regCommand, d.displayCtrl(true))
	d.sleep(time.Millisecond)

	d.output(regCommand, cmdEntryMode|entryIncrement)
	d.sleep(time.Millisecond)

	d.Clear()
}

// displayCtrl builds the display on/off control byte. The off state never
// carries cursor or blink bits.
func (d *Dev) displayCtrl(on bool) byte {
	val := byte(cmdDisplayCtrl)
	if !on {
		return val
	}
	val |= displayOn
	if d.opts.Cursor {
		val |= cursorOn
	}
	if d.opts.Blink {
		val |= blinkOn
	}
	return val
}

// calcAddr returns the DDRAM address of the cursor. Rows 1 and 3 live on
// the second controller line; rows 2 and 3 are continuations of rows 0 and
// 1, offset by the configured column count rather than the 40-byte
// hardware line size.
func (d *Dev) calcAddr() byte {
	addr := byte(d.col)
	if d.row == 1 || d.row == 3 {
		addr += row1Offset
	}
	if d.row == 2 || d.row == 3 {
		addr += byte(d.opts.Cols)
	}
	return addr
}

// Clear clears all character cells and homes the cursor.
func (d *Dev) Clear() {
	d.output(regCommand, cmdClear)
	d.sleep(2 * time.Millisecond)
	d.col = 0
	d.row = 0
}

// Home moves the cursor to (0,0) without clearing content. It also resets
// any display shift.
func (d *Dev) Home() {
	d.output(regCommand, cmdHome)
	d.sleep(2 * time.Millisecond)
	d.col = 0
	d.row = 0
}

// CarriageReturn moves the cursor to the start of the current row.
func (d *Dev) CarriageReturn() {
	d.col = 0
	d.output(regCommand, cmdSetDDRAMAddr|d.calcAddr())
	d.sleep(time.Millisecond)
}

// Newline fills the remainder of the current row with spaces and moves to
// the start of the next row. If there is no next row the cursor is held at
// the end position, so no characters are output until the screen is
// cleared or the cursor is moved otherwise.
func (d *Dev) Newline() {
	for d.col < d.opts.Cols { // NB: WriteChar increments col
		d.WriteChar(' ')
	}
	if d.row < d.opts.Rows-1 {
		d.row++
		d.col = 0
		d.output(regCommand, cmdSetDDRAMAddr|d.calcAddr())
		d.sleep(time.Millisecond)
	}
}

// Tab advances the cursor to the next multiple of 8 columns by writing
// spaces, clamped to the display width.
func (d *Dev) Tab() {
	n := 8 - d.col%8
	if d.col+n > d.opts.Cols {
		n = d.opts.Cols - d.col
	}
	for ; n > 0; n-- {
		d.WriteChar(' ')
	}
}

// Backspace moves the cursor back, overwrites the cell with a space and
// moves back again. At column 0 it degrades to Flash.
func (d *Dev) Backspace() {
	if d.col > 0 {
		d.output(regCommand, cmdMove|moveCursor|moveLeft)
		d.col-- // NB: WriteChar increments col
		d.WriteChar(' ')
		d.output(regCommand, cmdMove|moveCursor|moveLeft)
		d.col--
	} else {
		d.Flash()
	}
	d.sleep(time.Millisecond)
}

// Flash turns the display off and on a couple of times as a visual
// attention signal. Cursor and content are unchanged.
func (d *Dev) Flash() {
	for i := 0; i < 2; i++ {
		d.output(regCommand, d.displayCtrl(false))
		d.sleep(200 * time.Millisecond)
		d.output(regCommand, d.displayCtrl(true))
		d.sleep(200 * time.Millisecond)
	}
}

// WriteChar transmits one character at the cursor and advances it. It
// won't print beyond the screen even if there is off-screen DDRAM
// available; screen shift commands are not supported.
func (d *Dev) WriteChar(c byte) {
	if d.col == d.opts.Cols {
		return
	}
	d.output(regData, c)
	d.sleep(40 * time.Microsecond)
	d.col++
}

// MoveTo repositions the cursor to an arbitrary cell.
func (d *Dev) MoveTo(row, col int) error {
	if row < 0 || row >= d.opts.Rows || col < 0 || col >= d.opts.Cols {
		return fmt.Errorf("hd44780: MoveTo(%d,%d) out of range", row, col)
	}
	d.row = row
	d.col = col
	d.output(regCommand, cmdSetDDRAMAddr|d.calcAddr())
	d.sleep(time.Millisecond)
	return nil
}

// Backlight turns the display backlight on or off. It is a no-op when no
// backlight pin was supplied.
func (d *Dev) Backlight(on bool) {
	if d.opts.BL == nil {
		return
	}
	d.setPin(d.opts.BL, gpio.Level(on))
}

// Halt releases all lines. The display content is left as-is.
func (d *Dev) Halt() error {
	var err error
	for _, p := range d.pins() {
		if p == nil {
			continue
		}
		if e := p.Halt(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

var _ conn.Resource = &Dev{}
