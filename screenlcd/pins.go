// Copyright 2026 The GPIOLCD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screenlcd

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const (
	pinRS = iota
	pinRW
	pinE
	pinBL
	pinDB4
	pinDB5
	pinDB6
	pinDB7
	pinCount
)

var pinNames = [pinCount]string{"RS", "RW", "E", "BL", "DB4", "DB5", "DB6", "DB7"}

// Pins is the set of virtual lines exposed by the emulated module, shaped
// to plug directly into a driver expecting discrete output pins.
type Pins struct {
	RS, RW, E, BL gpio.PinOut
	DB            [4]gpio.PinOut
}

// Pins returns the virtual lines of the module.
func (d *Dev) Pins() Pins {
	return Pins{
		RS: d.pins[pinRS],
		RW: d.pins[pinRW],
		E:  d.pins[pinE],
		BL: d.pins[pinBL],
		DB: [4]gpio.PinOut{
			d.pins[pinDB4], d.pins[pinDB5], d.pins[pinDB6], d.pins[pinDB7],
		},
	}
}

func (d *Dev) makePins() {
	for ix := range d.pins {
		d.pins[ix] = &pin{name: pinNames[ix], number: ix, dev: d}
	}
}

// A pin is a virtual output line of the emulated module. It implements
// gpio.PinOut.
type pin struct {
	name   string
	number int
	dev    *Dev
	level  gpio.Level
}

func (p *pin) Name() string {
	return p.name
}

func (p *pin) Number() int {
	return p.number
}

func (p *pin) String() string {
	return fmt.Sprintf("screenlcd Pin: Name: %s Number: %d", p.name, p.number)
}

func (p *pin) Halt() error {
	return nil
}

func (p *pin) Function() string {
	return "Out"
}

func (p *pin) Out(l gpio.Level) error {
	falling := p.number == pinE && p.level == gpio.High && l == gpio.Low
	p.level = l
	switch {
	case falling:
		p.dev.latch()
	case p.number == pinBL:
		if bool(l) != p.dev.backlight {
			p.dev.backlight = bool(l)
			p.dev.refresh()
		}
	}
	return nil
}

func (p *pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("not implemented")
}

var _ gpio.PinOut = &pin{}
