// Derived from Go which is licensed as follows:
//
// Copyright (c) 2009 The Go Authors. All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are
// met:
//
//   * Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//   * Redistributions in binary form must reproduce the above
// copyright notice, this list of conditions and the following disclaimer
// in the documentation and/or other materials provided with the
// distribution.
//   * Neither the name of Google Inc. nor the names of its
// contributors may be used to endorse or promote products derived from
// this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
// "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
// LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
// A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
// OWNER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
// LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
// DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
// THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
// (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package bmp

import (
	"image"
	"image/color"
	"io"
)

// AsImage converts a normalized Image to a stdlib image.Image:
// FormatBGRA8 and FormatRGBA8 become *image.NRGBA, FormatBGR8 becomes
// an opaque *image.NRGBA, FormatGray8 becomes *image.Gray. Images
// without an alpha channel come out fully opaque; the reserved byte a
// BMP color table stores where alpha would sit is not one.
// FormatRawBitfields returns ErrRawPixels, leaving the caller the raw
// words and masks.
func (img *Image) AsImage() (image.Image, error) {
	w, h := int(img.Meta.Width), img.Meta.AbsHeight()
	switch img.Format {
	case FormatBGRA8, FormatRGBA8:
		nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
		copy(nrgba.Pix, img.Pix)
		opaque := img.Meta.Masks.A == 0
		for i := 0; i < len(nrgba.Pix); i += 4 {
			if img.Format == FormatBGRA8 {
				nrgba.Pix[i+0], nrgba.Pix[i+2] = nrgba.Pix[i+2], nrgba.Pix[i+0]
			}
			if opaque {
				nrgba.Pix[i+3] = 0xFF
			}
		}
		return nrgba, nil
	case FormatBGR8:
		nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
		for i, j := 0, 0; i < len(nrgba.Pix); i, j = i+4, j+3 {
			nrgba.Pix[i+0] = img.Pix[j+2]
			nrgba.Pix[i+1] = img.Pix[j+1]
			nrgba.Pix[i+2] = img.Pix[j+0]
			nrgba.Pix[i+3] = 0xFF
		}
		return nrgba, nil
	case FormatGray8:
		gray := image.NewGray(image.Rect(0, 0, w, h))
		copy(gray.Pix, img.Pix)
		return gray, nil
	}
	return nil, ErrRawPixels
}

// Decode reads a BMP image from r and returns it as an image.Image.
// Raw-bitfield and embedded JPEG/PNG images cannot be represented as
// an image.Image; use DecodeBytes to get at those.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	img, err := DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	return img.AsImage()
}

// DecodeConfig returns the color model and dimensions of a BMP image
// without decoding the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}
	d := &decoder{data: data}
	if err := d.parseFileHeader(); err != nil {
		return image.Config{}, err
	}
	if err := d.parseDIBHeader(); err != nil {
		return image.Config{}, err
	}
	cfg := image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(d.m.Width),
		Height:     d.m.AbsHeight(),
	}
	if d.m.BitsPerPixel <= 8 {
		d.readPalette()
		pcm := make(color.Palette, len(d.palette))
		for i, e := range d.palette {
			pcm[i] = color.RGBA{R: e.R, G: e.G, B: e.B, A: 0xFF}
		}
		cfg.ColorModel = pcm
	}
	return cfg, nil
}

func init() {
	image.RegisterFormat("bmp", "BM????\x00\x00\x00\x00", Decode, DecodeConfig)
}
