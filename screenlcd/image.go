// Copyright 2026 The GPIOLCD Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package screenlcd

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const imageMargin = 4

// Image renders a snapshot of the module as an image, character cells on a
// backlight-colored background. Handy for golden files and for previewing
// output in environments without a terminal.
func (d *Dev) Image() image.Image {
	f := basicfont.Face7x13
	w := d.cols*f.Advance + 2*imageMargin
	h := d.rows*f.Height + 2*imageMargin
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	bg := d.bezelColor()
	fg := color.NRGBA{R: 8, G: 24, B: 8, A: 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)
	if !d.on {
		return img
	}

	for r := 0; r < d.rows; r++ {
		drawer := font.Drawer{
			Dst:  img,
			Src:  &image.Uniform{fg},
			Face: f,
			Dot:  fixed.P(imageMargin, imageMargin+r*f.Height+f.Ascent),
		}
		drawer.DrawString(string(d.rowText(r)))
	}
	return img
}
