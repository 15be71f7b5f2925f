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

import "math/bits"

// rowStride returns the 4-byte-aligned byte length of a source row.
// Computed in 64 bits so width*bpp cannot wrap.
func rowStride(width uint32, bpp uint16) uint32 {
	b := (uint64(width)*uint64(bpp) + 7) / 8
	return uint32((b + 3) &^ 3)
}

// putPalette writes one BGRA pixel from a palette lookup. Indices past
// the end of the table collapse to entry 0.
func putPalette(dst []byte, off int, pal []PaletteEntry, idx byte) {
	if int(idx) >= len(pal) {
		idx = 0
	}
	e := pal[idx]
	dst[off+0] = e.B
	dst[off+1] = e.G
	dst[off+2] = e.R
	dst[off+3] = e.A
}

// decodeIndexed reads an uncompressed 1, 2, 4 or 8 bit-per-pixel image.
// Palette indices are packed most significant bits first within a byte.
func (d *decoder) decodeIndexed(pix []byte) (*Image, error) {
	if len(d.palette) == 0 {
		return nil, parseError(MissingPalette, "indexed image without color table")
	}
	w, h := int(d.m.Width), d.m.AbsHeight()
	bpp := int(d.m.BitsPerPixel)
	stride := int(rowStride(uint32(w), d.m.BitsPerPixel))
	if uint64(stride)*uint64(h) > uint64(len(pix)) {
		return nil, parseError(Truncated, "pixel data")
	}
	img := d.newImage(FormatBGRA8, w*h*4)
	for row := 0; row < h; row++ {
		src := pix[row*stride:]
		y := row
		if !d.m.TopDown() {
			y = h - 1 - row
		}
		off, bit := 0, 8-bpp
		for x := 0; x < w; x++ {
			idx := (src[off] >> uint(bit)) & byte(1<<uint(bpp)-1)
			putPalette(img.Pix, (y*w+x)*4, d.palette, idx)
			if bit == 0 {
				bit = 8 - bpp
				off++
			} else {
				bit -= bpp
			}
		}
	}
	return img, nil
}

// decodeBGR24 copies 24 bit-per-pixel rows into a tightly packed BGR
// buffer, flipping bottom-up sources.
func (d *decoder) decodeBGR24(pix []byte) (*Image, error) {
	w, h := int(d.m.Width), d.m.AbsHeight()
	stride := int(rowStride(uint32(w), 24))
	if uint64(stride)*uint64(h) > uint64(len(pix)) {
		return nil, parseError(Truncated, "pixel data")
	}
	img := d.newImage(FormatBGR8, w*h*3)
	for row := 0; row < h; row++ {
		y := row
		if !d.m.TopDown() {
			y = h - 1 - row
		}
		copy(img.Pix[y*w*3:(y+1)*w*3], pix[row*stride:])
	}
	return img, nil
}

// defaultMasks returns the channel layout a BI_RGB image of the given
// depth implies: 5-5-5 at 16 bits, 8-8-8-8 at 32.
func defaultMasks(bpp uint16) Bitmasks {
	if bpp == 16 {
		return Bitmasks{R: 0x7C00, G: 0x03E0, B: 0x001F}
	}
	return Bitmasks{R: 0x00FF0000, G: 0x0000FF00, B: 0x000000FF, A: 0xFF000000}
}

// maskLayout returns the trailing-zero shift of mask and the width of
// the contiguous run of set bits starting there.
func maskLayout(mask uint32) (shift, width uint32) {
	if mask == 0 {
		return 0, 0
	}
	shift = uint32(bits.TrailingZeros32(mask))
	width = uint32(bits.TrailingZeros32(^(mask >> shift)))
	return shift, width
}

// losslessTo8 reports whether the red, green and blue masks are all
// nonzero and every nonzero channel mask is a contiguous run of at
// most 8 bits, in which case bit replication
// expands each channel to exactly 8 bits without losing information.
// Wider or gappy masks keep their raw packed form instead.
func losslessTo8(m Bitmasks) bool {
	if m.R == 0 || m.G == 0 || m.B == 0 {
		return false
	}
	for _, mask := range [4]uint32{m.R, m.G, m.B, m.A} {
		if mask == 0 {
			continue
		}
		shift, width := maskLayout(mask)
		if width > 8 || mask != (1<<width-1)<<shift {
			return false
		}
	}
	return true
}

// extractChannel pulls the channel selected by mask out of a pixel
// word and scales it to 8 bits. Channels wider than 8 bits keep their
// top 8; narrower ones are bit-replicated so the maximum source value
// maps to 0xFF.
func extractChannel(v, mask uint32) uint8 {
	if mask == 0 {
		return 0
	}
	shift, width := maskLayout(mask)
	c := (v & mask) >> shift
	if width >= 8 {
		return uint8(c >> (width - 8))
	}
	x := c
	for width < 8 {
		x = x<<width | c
		width <<= 1
	}
	return uint8(x)
}

// decodeBitfields reads a 16 or 32 bit-per-pixel image. Mask sets that
// map losslessly to 8 bits per channel are normalized to BGRA; any
// other layout is passed through as raw words with the masks attached.
func (d *decoder) decodeBitfields(pix []byte, bytesPerPixel int) (*Image, error) {
	w, h := int(d.m.Width), d.m.AbsHeight()
	stride := int(rowStride(uint32(w), d.m.BitsPerPixel))
	if uint64(stride)*uint64(h) > uint64(len(pix)) {
		return nil, parseError(Truncated, "pixel data")
	}
	masks := d.m.Masks

	if !losslessTo8(masks) {
		img := d.newImage(FormatRawBitfields, w*h*bytesPerPixel)
		img.RawMasks = masks
		img.RawBitsPerPixel = uint8(d.m.BitsPerPixel)
		for row := 0; row < h; row++ {
			y := row
			if !d.m.TopDown() {
				y = h - 1 - row
			}
			copy(img.Pix[y*w*bytesPerPixel:(y+1)*w*bytesPerPixel], pix[row*stride:])
		}
		return img, nil
	}

	img := d.newImage(FormatBGRA8, w*h*4)
	for row := 0; row < h; row++ {
		src := pix[row*stride:]
		y := row
		if !d.m.TopDown() {
			y = h - 1 - row
		}
		for x := 0; x < w; x++ {
			var v uint32
			if bytesPerPixel == 2 {
				v = uint32(readUint16(src[x*2:]))
			} else {
				v = readUint32(src[x*4:])
			}
			a := uint8(0xFF)
			if masks.A != 0 {
				a = extractChannel(v, masks.A)
			}
			off := (y*w + x) * 4
			img.Pix[off+0] = extractChannel(v, masks.B)
			img.Pix[off+1] = extractChannel(v, masks.G)
			img.Pix[off+2] = extractChannel(v, masks.R)
			img.Pix[off+3] = a
		}
	}
	return img, nil
}

// exposeEmbedded hands a BI_JPEG or BI_PNG payload to the caller
// unchanged; decoding it belongs to a JPEG/PNG decoder.
func (d *decoder) exposeEmbedded(pix []byte) *Image {
	img := d.newImage(FormatRawBitfields, 0)
	img.Pix = append([]byte(nil), pix...)
	return img
}
