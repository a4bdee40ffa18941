// Copyright 2026 The GPIOLCD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780_test

import (
	"log"
	"os"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/hwtools/gpiolcd/hd44780"
)

// This example drives a 2x16 module wired to the first GPIO lines of the
// host, using the default gpiolcd pin assignment: RS=0, RW=1, E=2,
// backlight=3, data lines 4..7.
func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	dev, err := hd44780.New(&hd44780.Opts{
		RS: gpioreg.ByName("0"),
		RW: gpioreg.ByName("1"),
		E:  gpioreg.ByName("2"),
		BL: gpioreg.ByName("3"),
		DB: [4]gpio.PinOut{
			gpioreg.ByName("4"),
			gpioreg.ByName("5"),
			gpioreg.ByName("6"),
			gpioreg.ByName("7"),
		},
		Rows:      2,
		Cols:      16,
		Backlight: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Halt()

	in := hd44780.NewInterpreter(dev)
	if _, err := in.Write([]byte("Hello\nfrom gpiolcd")); err != nil {
		log.Fatal(err)
	}
}

// Standard input can be streamed straight to the display; the interpreter
// is an io.Writer.
func ExampleInterpreter_Write() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	dev, err := hd44780.New(&hd44780.Opts{
		RS: gpioreg.ByName("0"),
		RW: gpioreg.ByName("1"),
		E:  gpioreg.ByName("2"),
		DB: [4]gpio.PinOut{
			gpioreg.ByName("4"),
			gpioreg.ByName("5"),
			gpioreg.ByName("6"),
			gpioreg.ByName("7"),
		},
		Rows: 2,
		Cols: 16,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Halt()

	in := hd44780.NewInterpreter(dev)
	var buf [1]byte
	for {
		n, err := os.Stdin.Read(buf[:])
		if n > 0 {
			in.Consume(buf[0])
		}
		if err != nil {
			return
		}
	}
}
