// Copyright 2026 The GPIOLCD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// gpiolcd writes text to a Hitachi HD44780 compatible LCD module hung off
// GPIO lines, using the 4-bit data interface.
//
// Message strings are taken from the command line, or from standard input
// when no arguments are given. A few ASCII control characters and two
// escape sequences are interpreted, see -help.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/hwtools/gpiolcd/hd44780"
)

// Exit statuses, following the BSD sysexits convention.
const (
	exitOK     = 0
	exitUsage  = 64 // command line usage error
	exitOSFile = 72 // critical OS file missing
)

// countFlag counts repeated occurrences of a boolean flag, for -d -d -d.
type countFlag int

func (c *countFlag) String() string {
	return strconv.Itoa(int(*c))
}

func (c *countFlag) Set(string) error {
	*c++
	return nil
}

func (c *countFlag) IsBoolFlag() bool {
	return true
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "usage: gpiolcd [-d] [-B] [-C] [-F] [-O] [-f prefix] [-h <n>] [-w <n>]\n"+
		"\t[-R <n>] [-W <n>] [-E <n>] [-L <n>] [-D <n>] [-I <n>] [args...]\n")
	fmt.Fprintf(w, "Supported hardware: Hitachi HD44780 and compatibles\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "  args\n\tMessage strings. Some ASCII control characters and escape sequences are supported:\n"+
		"\t\t<BS>  (\\b)  Backspace\n"+
		"\t\t<FF>  (\\f)  Clear display, home cursor\n"+
		"\t\t<NL>  (\\n)  Newline\n"+
		"\t\t<CR>  (\\r)  Carriage return\n"+
		"\t\t<HT>  (\\t)  Tab\n"+
		"\t\t<BEL> (\\a)  Flash screen\n"+
		"\t\t<ESC>R      Reset display\n"+
		"\t\t<ESC>H      Home cursor\n"+
		"\tIf args are not supplied, strings are read from standard input.\n")
}

// logLevel maps the -d count to a logrus level. A single -d already
// surfaces line-set failures, which the driver logs at Debug; a second one
// adds the input-source notices and the bus byte traces.
func logLevel(debug countFlag) logrus.Level {
	switch debug {
	case 0:
		return logrus.WarnLevel
	case 1:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("gpiolcd", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { usage(fs) }

	var debug countFlag
	fs.Var(&debug, "d", "increase debugging")
	prefix := fs.String("f", "", "GPIO line name `prefix`, prepended to line numbers")
	lines := fs.Int("h", 2, "n-line display")
	cols := fs.Int("w", 16, "n-column display")
	blink := fs.Bool("B", false, "cursor blink enable")
	cursor := fs.Bool("C", false, "cursor enable")
	largeFont := fs.Bool("F", false, "large font select")
	blOff := fs.Bool("O", false, "turn backlight off (default on)")
	rsPin := fs.Int("R", 0, "R/S line number")
	rwPin := fs.Int("W", 1, "R/W line number")
	ePin := fs.Int("E", 2, "E line number")
	blPin := fs.Int("L", 3, "backlight line number, -1 to disable")
	datPin := fs.Int("D", 4, "first data line number")
	ifWidth := fs.Int("I", 4, "data interface width (only 4 is supported)")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	logrus.SetLevel(logLevel(debug))

	if *ifWidth != 4 {
		fmt.Fprintf(os.Stderr, "gpiolcd: unsupported data interface width %d\n", *ifWidth)
		usage(fs)
		return exitUsage
	}

	opts := hd44780.Opts{
		Rows:      *lines,
		Cols:      *cols,
		Cursor:    *cursor,
		Blink:     *blink,
		Backlight: !*blOff,
	}
	if *largeFont {
		opts.Font = hd44780.Font5x10
	}

	// Geometry problems are reported before any line is touched; the
	// wiring itself is validated by hd44780.New once the lines exist.
	if err := opts.ValidateGeometry(); err != nil {
		fmt.Fprintf(os.Stderr, "gpiolcd: %v\n", err)
		usage(fs)
		return exitUsage
	}
	for _, n := range []int{*rsPin, *rwPin, *ePin, *datPin} {
		if n < 0 {
			fmt.Fprintf(os.Stderr, "gpiolcd: invalid line number %d\n", n)
			usage(fs)
			return exitUsage
		}
	}
	if !*blOff && *blPin < 0 {
		fmt.Fprintf(os.Stderr, "gpiolcd: backlight line is not specified\n")
		usage(fs)
		return exitUsage
	}

	if _, err := host.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "gpiolcd: initializing host GPIO: %v\n", err)
		return exitOSFile
	}

	open := func(n int) (gpio.PinOut, bool) {
		name := *prefix + strconv.Itoa(n)
		p := gpioreg.ByName(name)
		if p == nil {
			fmt.Fprintf(os.Stderr, "gpiolcd: can't open line '%s'\n", name)
			return nil, false
		}
		return p, true
	}

	var ok bool
	if opts.RS, ok = open(*rsPin); !ok {
		return exitOSFile
	}
	if opts.RW, ok = open(*rwPin); !ok {
		return exitOSFile
	}
	if opts.E, ok = open(*ePin); !ok {
		return exitOSFile
	}
	if *blPin >= 0 {
		if opts.BL, ok = open(*blPin); !ok {
			return exitOSFile
		}
	}
	// The data lines are contiguous and consecutively numbered.
	for i := range opts.DB {
		if opts.DB[i], ok = open(*datPin + i); !ok {
			return exitOSFile
		}
	}

	dev, err := hd44780.New(&opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gpiolcd: %v\n", err)
		usage(fs)
		return exitUsage
	}
	defer func() { _ = dev.Halt() }()

	in := hd44780.NewInterpreter(dev)
	if fs.NArg() > 0 {
		logrus.Tracef("gpiolcd: reading input from %d argument(s)", fs.NArg())
		for _, arg := range fs.Args() {
			_, _ = in.Write([]byte(arg))
		}
		return exitOK
	}

	logrus.Trace("gpiolcd: reading input from stdin")
	var buf [1]byte
	for {
		n, err := os.Stdin.Read(buf[:])
		if n > 0 {
			in.Consume(buf[0])
		}
		if err != nil {
			if err != io.EOF {
				logrus.Warnf("gpiolcd: reading stdin: %v", err)
			}
			return exitOK
		}
	}
}
