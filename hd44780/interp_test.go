// Copyright 2026 The GPIOLCD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInterpreterPrintable(t *testing.T) {
	d, rec := newTestDev(2, 16)
	in := NewInterpreter(d)

	if _, err := in.Write([]byte("Hi!")); err != nil {
		t.Fatal(err)
	}

	want := []busWrite{dataWrite('H'), dataWrite('i'), dataWrite('!')}
	if diff := cmp.Diff(want, decode(rec.events, false)); diff != "" {
		t.Errorf("bytes (-want +got):\n%s", diff)
	}
}

func TestInterpreterControlCharacters(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   byte
		want []busWrite
	}{
		{"form feed clears", '\f', []busWrite{cmdWrite(0x01)}},
		{"carriage return", '\r', []busWrite{cmdWrite(0x80 | 0x40)}},
		{"bell flashes", '\a', []busWrite{cmdWrite(0x08), cmdWrite(0x0c), cmdWrite(0x08), cmdWrite(0x0c)}},
		{"backspace", '\b', []busWrite{cmdWrite(0x10), dataWrite(' '), cmdWrite(0x10)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, rec := newTestDev(2, 16)
			d.row = 1
			d.col = 2
			in := NewInterpreter(d)

			in.Consume(tc.in)

			if diff := cmp.Diff(tc.want, decode(rec.events, false)); diff != "" {
				t.Errorf("bytes (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInterpreterDropsNonPrintable(t *testing.T) {
	d, rec := newTestDev(2, 16)
	in := NewInterpreter(d)

	for _, c := range []byte{0x00, 0x01, 0x0e, 0x7f, 0x80, 0xff} {
		in.Consume(c)
	}

	if len(rec.events) != 0 {
		t.Errorf("non-printable input emitted %d transitions, want 0", len(rec.events))
	}
	if row, col := d.CursorPosition(); row != 0 || col != 0 {
		t.Errorf("cursor = (%d,%d), want (0,0)", row, col)
	}
}

func TestInterpreterEscapeReset(t *testing.T) {
	d, rec := newTestDev(2, 16)
	in := NewInterpreter(d)

	in.Consume(0x1b)
	if len(rec.events) != 0 {
		t.Fatalf("ESC alone emitted %d transitions, want 0", len(rec.events))
	}
	in.Consume('R')

	got := decode(rec.events, true)
	want := []busWrite{
		cmdWrite(0x30), cmdWrite(0x30), cmdWrite(0x30),
		cmdWrite(0x20), cmdWrite(0x28),
		cmdWrite(0x08), cmdWrite(0x0c), cmdWrite(0x06), cmdWrite(0x01),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ESC R bytes (-want +got):\n%s", diff)
	}
}

func TestInterpreterEscapeHome(t *testing.T) {
	d, rec := newTestDev(2, 16)
	d.row = 1
	d.col = 5
	in := NewInterpreter(d)

	in.Consume(0x1b)
	in.Consume('H')

	want := []busWrite{cmdWrite(0x02)}
	if diff := cmp.Diff(want, decode(rec.events, false)); diff != "" {
		t.Errorf("ESC H bytes (-want +got):\n%s", diff)
	}
	if row, col := d.CursorPosition(); row != 0 || col != 0 {
		t.Errorf("cursor = (%d,%d), want (0,0)", row, col)
	}
}

func TestInterpreterEscapeUnknown(t *testing.T) {
	d, rec := newTestDev(2, 16)
	in := NewInterpreter(d)

	// The escaped character is discarded and the pending state cleared:
	// the following 'R' is plain data, not a reset.
	in.Consume(0x1b)
	in.Consume('x')
	in.Consume('R')

	want := []busWrite{dataWrite('R')}
	if diff := cmp.Diff(want, decode(rec.events, false)); diff != "" {
		t.Errorf("bytes (-want +got):\n%s", diff)
	}
}

func TestInterpreterScenario(t *testing.T) {
	// "AB\nCD" on a 2x16 display: write A and B, pad the rest of row 0
	// with spaces, move to row 1, write C and D.
	d, rec := newTestDev(2, 16)
	in := NewInterpreter(d)

	if _, err := in.Write([]byte("AB\nCD")); err != nil {
		t.Fatal(err)
	}

	want := []busWrite{dataWrite('A'), dataWrite('B')}
	for i := 0; i < 14; i++ {
		want = append(want, dataWrite(' '))
	}
	want = append(want, cmdWrite(0x80|0x40), dataWrite('C'), dataWrite('D'))
	if diff := cmp.Diff(want, decode(rec.events, false)); diff != "" {
		t.Errorf("bytes (-want +got):\n%s", diff)
	}
	if row, col := d.CursorPosition(); row != 1 || col != 2 {
		t.Errorf("cursor = (%d,%d), want (1,2)", row, col)
	}
}
