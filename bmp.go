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

// Package bmp implements a BMP image decoder covering the full
// historical family of Windows and OS/2 bitmap headers.
//
// The BMP specification is at http://www.digicamsoft.com/bmp/bmp.html.
package bmp

// DIBType identifies which DIB header variant introduced the image.
type DIBType int

const (
	DIBCoreOS2V1 DIBType = iota // BITMAPCOREHEADER, 12 bytes
	DIBOS2V2                    // OS/2 BITMAPINFOHEADER2, 16 or 64 bytes
	DIBInfo                     // BITMAPINFOHEADER, 40 bytes
	DIBV2                       // BITMAPV2INFOHEADER, 52 bytes
	DIBV3                       // BITMAPV3INFOHEADER, 56 bytes
	DIBV4                       // BITMAPV4HEADER, 108 bytes
	DIBV5                       // BITMAPV5HEADER, 124 bytes
)

// Compression values from the Windows GDI headers (wingdi.h) and the
// OS/2 Presentation Manager docs.
type Compression uint32

const (
	BiRGB            Compression = 0
	BiRLE8           Compression = 1
	BiRLE4           Compression = 2
	BiBitfields      Compression = 3
	BiJPEG           Compression = 4
	BiPNG            Compression = 5
	BiAlphaBitfields Compression = 6
	BiCMYK           Compression = 11
	BiCMYKRLE8       Compression = 12
	BiCMYKRLE4       Compression = 13
)

// ColorSpaceType codes carried by V4 and V5 headers.
type ColorSpaceType uint32

const (
	LCSCalibratedRGB     ColorSpaceType = 0x00000000
	LCSsRGB              ColorSpaceType = 0x73524742
	LCSWindowsColorSpace ColorSpaceType = 0x57696E20
	ProfileLinked        ColorSpaceType = 0x4C494E4B
	ProfileEmbedded      ColorSpaceType = 0x4D424544
)

// RenderingIntent values carried by V5 headers.
type RenderingIntent uint32

const (
	IntentBusiness        RenderingIntent = 1
	IntentGraphics        RenderingIntent = 2
	IntentImages          RenderingIntent = 4
	IntentAbsColorimetric RenderingIntent = 8
)

// PixelFormat describes the layout of Image.Pix.
type PixelFormat int

const (
	FormatRGBA8 PixelFormat = iota
	FormatBGRA8
	FormatBGR8
	FormatGray8

	// FormatRawBitfields means the source uses bitfields that cannot be
	// losslessly mapped to 8 bits per channel; Pix holds the packed
	// source words and RawMasks describes the channels, so no precision
	// is thrown away.
	FormatRawBitfields
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	case FormatBGR8:
		return "BGR8"
	case FormatGray8:
		return "Gray8"
	case FormatRawBitfields:
		return "RawBitfields"
	}
	return "unknown"
}

// Bitmasks holds the per-channel extraction masks of a 16 or 32
// bit-per-pixel image.
type Bitmasks struct {
	R, G, B, A uint32
}

// CIEXYZ is a color-space endpoint as stored in V4/V5 headers,
// preserved verbatim as 16.16 (or 2.30) fixed-point integers.
type CIEXYZ struct {
	X, Y, Z int32
}

// CIEXYZTriple holds the red, green and blue endpoints of a calibrated
// color space.
type CIEXYZTriple struct {
	Red, Green, Blue CIEXYZ
}

// Metadata carries every header field the decoder reads, regardless of
// whether the pixel decoding consumed it.
type Metadata struct {
	Type           DIBType
	Width          int32
	Height         int32 // negative means the source rows are stored top-down
	Planes         uint16
	BitsPerPixel   uint16
	Compression    Compression
	ImageSize      uint32
	PPMX           uint32
	PPMY           uint32
	ColorUsed      uint32
	ColorImportant uint32

	// Bitfield masks, read from the header or synthesized for the
	// default 16/32 bit-per-pixel layouts.
	HasMasks bool
	Masks    Bitmasks

	// V4 color-space fields.
	CSType     ColorSpaceType
	Endpoints  CIEXYZTriple
	GammaRed   uint32
	GammaGreen uint32
	GammaBlue  uint32

	// V5 fields. Profile holds the embedded ICC profile bytes when
	// CSType is ProfileEmbedded and the header references a region
	// inside the file.
	Intent  RenderingIntent
	Profile []byte

	PixelOffset uint32
	HeaderSize  uint32
	FileSize    uint32
}

// TopDown reports whether the source stored its rows top-down. Decoded
// pixel rows are always top-down regardless.
func (m *Metadata) TopDown() bool { return m.Height < 0 }

// AbsHeight returns the height in pixels.
func (m *Metadata) AbsHeight() int {
	if m.Height < 0 {
		return int(-int64(m.Height))
	}
	return int(m.Height)
}

// PaletteEntry is a color table entry in file order. A holds the
// fourth (reserved) byte of 4-byte entries and is 0 for the 3-byte
// entries of OS/2 v1 files.
type PaletteEntry struct {
	B, G, R, A uint8
}

// Image is the decoder output: normalized pixels plus everything the
// headers declared. Rows in Pix are top-down.
type Image struct {
	Meta    Metadata
	Format  PixelFormat
	Pix     []byte
	Palette []PaletteEntry

	// Set when Format is FormatRawBitfields: the channel masks and the
	// bits per packed pixel word (16 or 32, or 0 for an embedded
	// JPEG/PNG stream exposed verbatim).
	RawMasks        Bitmasks
	RawBitsPerPixel uint8
}
