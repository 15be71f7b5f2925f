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

// decodeRLE reads a BI_RLE4 or BI_RLE8 compressed stream. The stream
// is a sequence of (count, value) encoded runs and zero-count escapes:
// end of line, end of bitmap, a (dx, dy) cursor delta, or an absolute
// run of literal indices padded to a 16-bit boundary.
//
// Out-of-bounds writes are clipped and a stream that ends before the
// end-of-bitmap escape terminates the decode without error, leaving
// the untouched pixels zero.
func (d *decoder) decodeRLE(pix []byte) (*Image, error) {
	if len(d.palette) == 0 {
		return nil, parseError(MissingPalette, "RLE image without color table")
	}
	w, h := int(d.m.Width), d.m.AbsHeight()
	img := d.newImage(FormatBGRA8, w*h*4)
	rle4 := d.m.BitsPerPixel == 4

	x, y := 0, 0
	put := func(idx byte) {
		if x < w && y < h {
			yy := y
			if !d.m.TopDown() {
				yy = h - 1 - y
			}
			putPalette(img.Pix, (yy*w+x)*4, d.palette, idx)
		}
		x++
		if x >= w {
			x, y = 0, y+1
		}
	}

	i := 0
Loop:
	for i < len(pix) && y < h {
		count := int(pix[i])
		i++
		if count > 0 {
			// Encoded run: one value byte repeated count times. For
			// RLE4 the byte packs two indices, high nibble first.
			if i >= len(pix) {
				break
			}
			v := pix[i]
			i++
			for k := 0; k < count && y < h; k++ {
				switch {
				case !rle4:
					put(v)
				case k&1 == 0:
					put(v >> 4)
				default:
					put(v & 0xF)
				}
			}
			continue
		}
		if i >= len(pix) {
			break
		}
		cmd := pix[i]
		i++
		switch cmd {
		case 0: // end of line
			x, y = 0, y+1
		case 1: // end of bitmap
			break Loop
		case 2: // delta
			if i+1 >= len(pix) {
				break Loop
			}
			x += int(pix[i])
			y += int(pix[i+1])
			i += 2
			if x > w {
				x = w
			}
			if y > h {
				y = h
			}
		default: // absolute run of cmd literal indices
			n := cmd
			length := int(n)
			if rle4 {
				length = (int(n) + 1) / 2
			}
			if i+length > len(pix) {
				break Loop
			}
			for k := 0; k < int(n) && y < h; k++ {
				if rle4 {
					nib := pix[i+k/2] >> 4
					if k&1 != 0 {
						nib = pix[i+k/2] & 0xF
					}
					put(nib)
				} else {
					put(pix[i+k])
				}
			}
			i += length
			// Absolute runs are word aligned.
			if length&1 != 0 && i < len(pix) {
				i++
			}
		}
	}
	return img, nil
}
