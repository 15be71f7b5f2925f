package bmp_test

import (
	"bytes"
	"encoding/binary"
)

// buildBMP assembles a complete BMP file around an arbitrary DIB
// header, computing the file header offsets the way an encoder would.
// extra holds a trailing bitfield mask segment, if any.
func buildBMP(dib, extra, palette, pix []byte) []byte {
	h := struct {
		SigBM     [2]byte
		FileSize  uint32
		Reserved  [2]uint16
		PixOffset uint32
	}{SigBM: [2]byte{'B', 'M'}}
	h.PixOffset = uint32(14 + len(dib) + len(extra) + len(palette))
	h.FileSize = h.PixOffset + uint32(len(pix))
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, h)
	buf.Write(dib)
	buf.Write(extra)
	buf.Write(palette)
	buf.Write(pix)
	return buf.Bytes()
}

// infoHeader returns a 40-byte BITMAPINFOHEADER.
func infoHeader(width, height int32, bpp uint16, compression, imageSize, colorUsed uint32) []byte {
	h := struct {
		Size           uint32
		Width, Height  int32
		Planes, BPP    uint16
		Compression    uint32
		ImageSize      uint32
		XPPM, YPPM     uint32
		ColorUsed      uint32
		ColorImportant uint32
	}{
		Size:        40,
		Width:       width,
		Height:      height,
		Planes:      1,
		BPP:         bpp,
		Compression: compression,
		ImageSize:   imageSize,
		ColorUsed:   colorUsed,
	}
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, h)
	return buf.Bytes()
}

// dibWithMasks widens a 40-byte header to a V2 (52) or V3 (56) header
// with in-header channel masks.
func dibWithMasks(dib40 []byte, r, g, b uint32, a *uint32) []byte {
	var buf bytes.Buffer
	buf.Write(dib40)
	binary.Write(&buf, binary.LittleEndian, [3]uint32{r, g, b})
	size := uint32(52)
	if a != nil {
		binary.Write(&buf, binary.LittleEndian, *a)
		size = 56
	}
	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out, size)
	return out
}

// maskSegment returns the 12- or 16-byte mask block that follows a
// 40-byte header when compression is a bitfields variant.
func maskSegment(masks ...uint32) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, masks)
	return buf.Bytes()
}

// palette4 packs 4-byte (b, g, r, reserved) color table entries.
func palette4(entries ...[4]byte) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		buf.Write(e[:])
	}
	return buf.Bytes()
}

// grayPalette256 is a full 256-entry gray ramp.
func grayPalette256() []byte {
	p := make([]byte, 256*4)
	for i := 0; i < 256; i++ {
		p[i*4+0] = byte(i)
		p[i*4+1] = byte(i)
		p[i*4+2] = byte(i)
	}
	return p
}

// v5Header mirrors the on-disk BITMAPV5HEADER layout.
type v5Header struct {
	Size           uint32
	Width, Height  int32
	Planes, BPP    uint16
	Compression    uint32
	ImageSize      uint32
	XPPM, YPPM     uint32
	ColorUsed      uint32
	ColorImportant uint32
	RMask, GMask   uint32
	BMask, AMask   uint32
	CSType         uint32
	Endpoints      [9]int32
	GammaR         uint32
	GammaG         uint32
	GammaB         uint32
	Intent         uint32
	ProfileData    uint32
	ProfileSize    uint32
	Reserved       uint32
}

func (h v5Header) bytes() []byte {
	h.Size = 124
	if h.Planes == 0 {
		h.Planes = 1
	}
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, h)
	return buf.Bytes()
}
