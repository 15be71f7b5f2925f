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
	"os"
	"strconv"
)

const fileHeaderLen = 14

// DIB header sizes the decoder accepts. Anything else, including the
// in-between sizes some OS/2 writers emitted, is rejected.
const (
	coreHeaderLen   = 12
	os2V2ShortLen   = 16
	infoHeaderLen   = 40
	v2InfoHeaderLen = 52
	v3InfoHeaderLen = 56
	os2V2FullLen    = 64
	v4InfoHeaderLen = 108
	v5InfoHeaderLen = 124
)

func readUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func readUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

type decoder struct {
	data    []byte
	m       Metadata
	palette []PaletteEntry
}

// parseFileHeader reads the 14-byte BITMAPFILEHEADER.
func (d *decoder) parseFileHeader() error {
	if len(d.data) < fileHeaderLen {
		return parseError(Truncated, "file header")
	}
	if d.data[0] != 'B' || d.data[1] != 'M' {
		return parseError(NotABmp, "missing 'BM' magic")
	}
	d.m.FileSize = readUint32(d.data[2:])
	d.m.PixelOffset = readUint32(d.data[10:])
	if uint64(d.m.PixelOffset) > uint64(len(d.data)) {
		return parseError(BadOffset, "pixel data offset beyond buffer end")
	}
	return nil
}

// parseDIBHeader dispatches on the leading size field and fills the
// metadata for whichever of the seven header variants it finds.
func (d *decoder) parseDIBHeader() error {
	if len(d.data) < fileHeaderLen+4 {
		return parseError(Truncated, "DIB header size")
	}
	size := readUint32(d.data[fileHeaderLen:])
	if uint64(fileHeaderLen)+uint64(size) > uint64(len(d.data)) {
		return parseError(Truncated, "DIB header")
	}
	dib := d.data[fileHeaderLen : fileHeaderLen+size]
	d.m.HeaderSize = size
	d.m.CSType = LCSsRGB
	d.m.Intent = IntentImages

	switch size {
	case coreHeaderLen:
		d.m.Type = DIBCoreOS2V1
		d.m.Width = int32(int16(readUint16(dib[4:])))
		d.m.Height = int32(int16(readUint16(dib[6:])))
		d.m.Planes = readUint16(dib[8:])
		d.m.BitsPerPixel = readUint16(dib[10:])
	case os2V2ShortLen:
		d.m.Type = DIBOS2V2
		d.m.Width = int32(readUint32(dib[4:]))
		d.m.Height = int32(readUint32(dib[8:]))
		d.m.Planes = readUint16(dib[12:])
		d.m.BitsPerPixel = readUint16(dib[14:])
	case os2V2FullLen:
		d.m.Type = DIBOS2V2
		d.parseInfoFields(dib)
	case infoHeaderLen, v2InfoHeaderLen, v3InfoHeaderLen, v4InfoHeaderLen, v5InfoHeaderLen:
		switch size {
		case infoHeaderLen:
			d.m.Type = DIBInfo
		case v2InfoHeaderLen:
			d.m.Type = DIBV2
		case v3InfoHeaderLen:
			d.m.Type = DIBV3
		case v4InfoHeaderLen:
			d.m.Type = DIBV4
		case v5InfoHeaderLen:
			d.m.Type = DIBV5
		}
		d.parseInfoFields(dib)
		d.parseMasks(dib)
		if size >= v4InfoHeaderLen {
			d.parseColorSpace(dib)
		}
		if size >= v5InfoHeaderLen {
			d.parseV5Fields(dib)
		}
	default:
		return parseError(UnsupportedDib, "header size "+strconv.FormatUint(uint64(size), 10))
	}

	if d.m.Planes != 1 {
		return parseError(InvalidField, "planes "+strconv.FormatUint(uint64(d.m.Planes), 10))
	}
	if d.m.BitsPerPixel == 0 {
		return parseError(InvalidField, "zero bits per pixel")
	}
	if d.m.Width <= 0 {
		return parseError(InvalidField, "width "+strconv.FormatInt(int64(d.m.Width), 10))
	}
	if d.m.Height == 0 {
		return parseError(InvalidField, "zero height")
	}
	// The BGRA8 output must fit in int on 32-bit hosts.
	if uint64(d.m.Width)*uint64(d.m.AbsHeight()) >= 1<<29 {
		return parseError(InvalidField, "image dimensions too large")
	}
	return nil
}

// parseInfoFields reads the fields every header of 40 bytes or more
// shares, which the 64-byte OS/2 v2 header also leads with.
func (d *decoder) parseInfoFields(dib []byte) {
	d.m.Width = int32(readUint32(dib[4:]))
	d.m.Height = int32(readUint32(dib[8:]))
	d.m.Planes = readUint16(dib[12:])
	d.m.BitsPerPixel = readUint16(dib[14:])
	d.m.Compression = Compression(readUint32(dib[16:]))
	d.m.ImageSize = readUint32(dib[20:])
	d.m.PPMX = readUint32(dib[24:])
	d.m.PPMY = readUint32(dib[28:])
	d.m.ColorUsed = readUint32(dib[32:])
	d.m.ColorImportant = readUint32(dib[36:])
}

// parseMasks picks up the channel masks for BI_BITFIELDS and
// BI_ALPHABITFIELDS images. Headers of 52 bytes or more carry the
// masks in-header; a 40-byte header is followed by a 12-byte (or, for
// alpha bitfields, 16-byte) mask segment when the buffer has room for
// one. The alpha mask needs either a V3+ header or BI_ALPHABITFIELDS.
func (d *decoder) parseMasks(dib []byte) {
	if d.m.Compression != BiBitfields && d.m.Compression != BiAlphaBitfields {
		return
	}
	if len(dib) >= v2InfoHeaderLen {
		d.m.Masks.R = readUint32(dib[40:])
		d.m.Masks.G = readUint32(dib[44:])
		d.m.Masks.B = readUint32(dib[48:])
		d.m.HasMasks = true
		if len(dib) >= v3InfoHeaderLen {
			d.m.Masks.A = readUint32(dib[52:])
		}
		return
	}
	segment := fileHeaderLen + infoHeaderLen
	if segment+12 <= len(d.data) {
		d.m.Masks.R = readUint32(d.data[segment:])
		d.m.Masks.G = readUint32(d.data[segment+4:])
		d.m.Masks.B = readUint32(d.data[segment+8:])
		d.m.HasMasks = true
		if d.m.Compression == BiAlphaBitfields && segment+16 <= len(d.data) {
			d.m.Masks.A = readUint32(d.data[segment+12:])
		}
	}
}

// parseColorSpace reads the V4 color-space tag, CIE XYZ endpoints and
// gamma words. The endpoints are kept verbatim; no conversion is done.
func (d *decoder) parseColorSpace(dib []byte) {
	d.m.CSType = ColorSpaceType(readUint32(dib[56:]))
	d.m.Endpoints.Red = CIEXYZ{
		X: int32(readUint32(dib[60:])),
		Y: int32(readUint32(dib[64:])),
		Z: int32(readUint32(dib[68:])),
	}
	d.m.Endpoints.Green = CIEXYZ{
		X: int32(readUint32(dib[72:])),
		Y: int32(readUint32(dib[76:])),
		Z: int32(readUint32(dib[80:])),
	}
	d.m.Endpoints.Blue = CIEXYZ{
		X: int32(readUint32(dib[84:])),
		Y: int32(readUint32(dib[88:])),
		Z: int32(readUint32(dib[92:])),
	}
	d.m.GammaRed = readUint32(dib[96:])
	d.m.GammaGreen = readUint32(dib[100:])
	d.m.GammaBlue = readUint32(dib[104:])
}

// parseV5Fields reads the rendering intent and, when the color space
// is an embedded profile, copies the referenced ICC bytes. A profile
// reference that falls outside the buffer is dropped, not fatal.
func (d *decoder) parseV5Fields(dib []byte) {
	switch readUint32(dib[108:]) {
	case uint32(IntentBusiness):
		d.m.Intent = IntentBusiness
	case uint32(IntentGraphics):
		d.m.Intent = IntentGraphics
	case uint32(IntentAbsColorimetric):
		d.m.Intent = IntentAbsColorimetric
	default:
		d.m.Intent = IntentImages
	}
	profileData := readUint32(dib[112:])
	profileSize := readUint32(dib[116:])
	if d.m.CSType != ProfileEmbedded || profileSize == 0 {
		return
	}
	start := uint64(fileHeaderLen) + uint64(profileData)
	end := start + uint64(profileSize)
	if end <= uint64(len(d.data)) {
		d.m.Profile = append([]byte(nil), d.data[start:end]...)
	}
}

// paletteEntries returns how many color table entries the header
// declares: 2^bpp for OS/2 v1 files, otherwise ColorUsed with a 2^bpp
// fallback for indexed depths.
func (d *decoder) paletteEntries() uint32 {
	if d.m.Type == DIBCoreOS2V1 {
		if d.m.BitsPerPixel <= 8 {
			return 1 << d.m.BitsPerPixel
		}
		return 0
	}
	if d.m.BitsPerPixel <= 8 && d.m.ColorUsed == 0 {
		return 1 << d.m.BitsPerPixel
	}
	return d.m.ColorUsed
}

// readPalette reads the color table sitting between the DIB header and
// the pixel data. The entry count is capped at what actually fits so a
// truncated or overstated table never reads out of bounds; an indexed
// image with no palette at all only fails later, at decode time.
func (d *decoder) readPalette() {
	count := d.paletteEntries()
	if count == 0 {
		return
	}
	offset := uint64(fileHeaderLen) + uint64(d.m.HeaderSize)
	if uint64(d.m.PixelOffset) <= offset {
		return
	}
	available := uint64(d.m.PixelOffset) - offset
	entrySize := uint64(4)
	if d.m.Type == DIBCoreOS2V1 {
		entrySize = 3
	}
	if fits := available / entrySize; fits < uint64(count) {
		count = uint32(fits)
	}
	d.palette = make([]PaletteEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		e := d.data[offset+uint64(i)*entrySize:]
		if entrySize == 3 {
			d.palette = append(d.palette, PaletteEntry{B: e[0], G: e[1], R: e[2]})
		} else {
			d.palette = append(d.palette, PaletteEntry{B: e[0], G: e[1], R: e[2], A: e[3]})
		}
	}
}

// decodePixels dispatches on (bits per pixel, compression) and runs
// the matching pixel path.
func (d *decoder) decodePixels() (*Image, error) {
	pix := d.data[d.m.PixelOffset:]
	if d.m.ImageSize != 0 && uint64(d.m.ImageSize) <= uint64(len(pix)) {
		pix = pix[:d.m.ImageSize]
	}
	switch d.m.BitsPerPixel {
	case 1, 2, 4, 8:
		switch {
		case d.m.Compression == BiRGB:
			return d.decodeIndexed(pix)
		case d.m.Compression == BiRLE8 && d.m.BitsPerPixel == 8:
			return d.decodeRLE(pix)
		case d.m.Compression == BiRLE4 && d.m.BitsPerPixel == 4:
			return d.decodeRLE(pix)
		case d.m.Compression == BiJPEG || d.m.Compression == BiPNG:
			return d.exposeEmbedded(pix), nil
		}
	case 16, 32:
		switch d.m.Compression {
		case BiRGB, BiBitfields, BiAlphaBitfields:
			if !d.m.HasMasks {
				d.m.HasMasks = true
				d.m.Masks = defaultMasks(d.m.BitsPerPixel)
			}
			return d.decodeBitfields(pix, int(d.m.BitsPerPixel)/8)
		case BiJPEG, BiPNG:
			return d.exposeEmbedded(pix), nil
		}
	case 24:
		switch d.m.Compression {
		case BiRGB:
			return d.decodeBGR24(pix)
		case BiJPEG, BiPNG:
			return d.exposeEmbedded(pix), nil
		}
	default:
		return nil, parseError(InvalidField, "bit depth "+strconv.FormatUint(uint64(d.m.BitsPerPixel), 10))
	}
	return nil, parseError(UnsupportedCompression,
		"compression "+strconv.FormatUint(uint64(d.m.Compression), 10)+
			" at bit depth "+strconv.FormatUint(uint64(d.m.BitsPerPixel), 10))
}

func (d *decoder) newImage(format PixelFormat, size int) *Image {
	return &Image{
		Meta:    d.m,
		Format:  format,
		Pix:     make([]byte, size),
		Palette: d.palette,
	}
}

// DecodeBytes parses a BMP image from an in-memory buffer and returns
// the normalized pixels along with everything the headers declared.
// The returned Image owns its buffers; data is not retained.
func DecodeBytes(data []byte) (*Image, error) {
	d := &decoder{data: data}
	if err := d.parseFileHeader(); err != nil {
		return nil, err
	}
	if err := d.parseDIBHeader(); err != nil {
		return nil, err
	}
	d.readPalette()
	return d.decodePixels()
}

// DecodeFile reads the named file and decodes it with DecodeBytes.
func DecodeFile(name string) (*Image, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data)
}
