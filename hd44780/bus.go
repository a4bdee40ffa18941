// Copyright 2026 The GPIOLCD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// regType selects the instruction or data register of the controller via
// the RS line.
type regType bool

const (
	regCommand regType = false
	regData    regType = true
)

func (t regType) String() string {
	if t == regCommand {
		return "cmd "
	}
	return "data"
}

// setPin drives one line. The bus is write-only, so errors cannot be
// confirmed or retried at the hardware level; they are logged and the
// transmission carries on.
func (d *Dev) setPin(p gpio.PinOut, l gpio.Level) {
	if err := p.Out(l); err != nil {
		d.log.Debugf("hd44780: set line %s: %v", p, err)
	}
}

// strobe latches the current data lines into the controller. The delays
// are the datasheet minimums with margin: 20µs setup, 40µs enable pulse,
// 20µs hold.
func (d *Dev) strobe() {
	d.sleep(20 * time.Microsecond)
	d.setPin(d.opts.E, gpio.High)
	d.sleep(40 * time.Microsecond)
	d.setPin(d.opts.E, gpio.Low)
	d.sleep(20 * time.Microsecond)
}

// setNibble drives four bits of data, starting at bit shift, onto the data
// lines.
func (d *Dev) setNibble(data byte, shift uint) {
	for i, p := range d.opts.DB {
		d.setPin(p, gpio.Level(data&(1<<(uint(i)+shift)) != 0))
	}
}

// output transmits one command or data byte as two 4-bit transfers, upper
// nibble first.
func (d *Dev) output(t regType, data byte) {
	d.log.Tracef("hd44780: %s -> 0x%02x", t, data)

	d.setPin(d.opts.RW, gpio.Low)
	d.setPin(d.opts.RS, gpio.Level(t))

	d.setNibble(data, 4)
	d.strobe()
	d.setNibble(data, 0)
	d.strobe()
}

// outputHighNibble transmits only the upper nibble of data. It is used
// while the controller is still in its power-on 8-bit mode: the three
// wake-up writes and the switch to the 4-bit interface.
func (d *Dev) outputHighNibble(t regType, data byte) {
	d.log.Tracef("hd44780: %s -> 0x%02x (high nibble)", t, data)

	d.setPin(d.opts.RW, gpio.Low)
	d.setPin(d.opts.RS, gpio.Level(t))

	d.setNibble(data, 4)
	d.strobe()
}
