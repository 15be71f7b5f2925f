package bmp_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	bmp "github.com/sushant-k-ray/go-bmp"
)

func pixel16(v uint16) []byte {
	// One 16-bit pixel padded to the 4-byte row boundary.
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func TestDecode565Bitfields(t *testing.T) {
	extra := maskSegment(0xF800, 0x07E0, 0x001F)
	data := buildBMP(infoHeader(1, 1, 16, 3, 0, 0), extra, nil, pixel16(0xFFFF))
	img, err := bmp.DecodeBytes(data)
	require.NoError(t, err)
	require.Equal(t, bmp.FormatBGRA8, img.Format)
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, img.Pix)
	require.Equal(t, bmp.Bitmasks{R: 0xF800, G: 0x07E0, B: 0x001F}, img.Meta.Masks)
}

func TestBitReplication(t *testing.T) {
	// 5-bit and 6-bit channels are widened by self-concatenation, so a
	// raw channel maximum comes out as 0xFF.
	extra := maskSegment(0xF800, 0x07E0, 0x001F)
	tests := []struct {
		pixel   uint16
		b, g, r uint8
	}{
		{0x001F, 0xFF, 0x00, 0x00}, // blue max: 11111 -> 11111111
		{0x07E0, 0x00, 0xFF, 0x00}, // green max: 111111 -> 11111111
		{0xF800, 0x00, 0x00, 0xFF}, // red max
		{0x0001, 0x21, 0x00, 0x00}, // blue 00001 -> low 8 of 00001'00001
		{0x0015, 0xB5, 0x00, 0x00}, // blue 10101 -> low 8 of 10101'10101
	}
	for _, tt := range tests {
		data := buildBMP(infoHeader(1, 1, 16, 3, 0, 0), extra, nil, pixel16(tt.pixel))
		img, err := bmp.DecodeBytes(data)
		require.NoError(t, err)
		require.Equal(t, []byte{tt.b, tt.g, tt.r, 0xFF}, img.Pix, "pixel %04x", tt.pixel)
	}
}

func TestDecode16BppDefaultMasks(t *testing.T) {
	// BI_RGB at 16 bpp implies the 5-5-5 layout.
	data := buildBMP(infoHeader(1, 1, 16, 0, 0, 0), nil, nil, pixel16(0x7FFF))
	img, err := bmp.DecodeBytes(data)
	require.NoError(t, err)
	require.Equal(t, bmp.FormatBGRA8, img.Format)
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, img.Pix)
	require.True(t, img.Meta.HasMasks)
	require.Equal(t, bmp.Bitmasks{R: 0x7C00, G: 0x03E0, B: 0x001F}, img.Meta.Masks)
}

func TestRawBitfields1010102(t *testing.T) {
	alpha := uint32(0xC0000000)
	dib := dibWithMasks(infoHeader(2, 1, 32, 3, 0, 0), 0x3FF00000, 0x000FFC00, 0x000003FF, &alpha)
	pix := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0}
	img, err := bmp.DecodeBytes(buildBMP(dib, nil, nil, pix))
	require.NoError(t, err)
	require.Equal(t, bmp.FormatRawBitfields, img.Format)
	require.Equal(t, uint8(32), img.RawBitsPerPixel)
	require.Equal(t, bmp.Bitmasks{R: 0x3FF00000, G: 0x000FFC00, B: 0x000003FF, A: 0xC0000000}, img.RawMasks)
	require.Equal(t, pix, img.Pix)
}

func TestRawBitfields16BppStrideTrimmed(t *testing.T) {
	// A 10-bit red channel cannot map losslessly to 8 bits; the raw
	// words come back with the row padding removed.
	extra := maskSegment(0xFFC0, 0x003E, 0x0001)
	pix := []byte{0xAB, 0xCD, 0x00, 0x00} // one pixel, two padding bytes
	img, err := bmp.DecodeBytes(buildBMP(infoHeader(1, 1, 16, 3, 0, 0), extra, nil, pix))
	require.NoError(t, err)
	require.Equal(t, bmp.FormatRawBitfields, img.Format)
	require.Equal(t, uint8(16), img.RawBitsPerPixel)
	require.Equal(t, []byte{0xAB, 0xCD}, img.Pix)
}

func TestRawBitfieldsBottomUpFlipped(t *testing.T) {
	alpha := uint32(0)
	dib := dibWithMasks(infoHeader(1, 2, 32, 3, 0, 0), 0x3FF00000, 0x000FFC00, 0x000003FF, &alpha)
	pix := []byte{
		1, 1, 1, 1, // source row 0 = image bottom
		2, 2, 2, 2, // source row 1 = image top
	}
	img, err := bmp.DecodeBytes(buildBMP(dib, nil, nil, pix))
	require.NoError(t, err)
	require.Equal(t, []byte{2, 2, 2, 2, 1, 1, 1, 1}, img.Pix)
}

func TestMirrorMasksDecodeToBGRA(t *testing.T) {
	// The byte-mirrored 8-8-8 layout (red in the low byte) is still a
	// lossless mapping.
	alpha := uint32(0xFF000000)
	dib := dibWithMasks(infoHeader(1, 1, 32, 3, 0, 0), 0x000000FF, 0x0000FF00, 0x00FF0000, &alpha)
	img, err := bmp.DecodeBytes(buildBMP(dib, nil, nil, []byte{0x11, 0x22, 0x33, 0x44}))
	require.NoError(t, err)
	require.Equal(t, bmp.FormatBGRA8, img.Format)
	// Pixel word is 0x44332211: R=0x11, G=0x22, B=0x33, A=0x44.
	require.Equal(t, []byte{0x33, 0x22, 0x11, 0x44}, img.Pix)
}

func TestAlphaMaskZeroMeansOpaque(t *testing.T) {
	dib := dibWithMasks(infoHeader(1, 1, 32, 3, 0, 0), 0x00FF0000, 0x0000FF00, 0x000000FF, nil)
	img, err := bmp.DecodeBytes(buildBMP(dib, nil, nil, []byte{0x11, 0x22, 0x33, 0x00}))
	require.NoError(t, err)
	require.Equal(t, bmp.FormatBGRA8, img.Format)
	require.Equal(t, []byte{0x11, 0x22, 0x33, 0xFF}, img.Pix)
}

func TestMissingMaskSegmentFallsBackToDefaults(t *testing.T) {
	// A 40-byte header that declares BI_BITFIELDS but has no room for
	// the trailing mask segment decodes with the default layout.
	dib := infoHeader(1, 1, 16, 3, 0, 0)
	data := buildBMP(dib, nil, nil, pixel16(0x7C00))
	img, err := bmp.DecodeBytes(data)
	require.NoError(t, err)
	require.Equal(t, bmp.Bitmasks{R: 0x7C00, G: 0x03E0, B: 0x001F}, img.Meta.Masks)
	require.Equal(t, []byte{0x00, 0x00, 0xFF, 0xFF}, img.Pix)
}

func TestAlphaBitfields(t *testing.T) {
	// BI_ALPHABITFIELDS after a 40-byte header carries a fourth mask
	// in the trailing segment.
	extra := maskSegment(0x00FF0000, 0x0000FF00, 0x000000FF, 0xFF000000)
	data := buildBMP(infoHeader(1, 1, 32, 6, 0, 0), extra, nil, []byte{0x11, 0x22, 0x33, 0x44})
	img, err := bmp.DecodeBytes(data)
	require.NoError(t, err)
	require.Equal(t, bmp.FormatBGRA8, img.Format)
	require.Equal(t, []byte{0x11, 0x22, 0x33, 0x44}, img.Pix)
	require.Equal(t, uint32(0xFF000000), img.Meta.Masks.A)
}
