package bmp_test

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	bmp "github.com/sushant-k-ray/go-bmp"
)

func TestAsImageBGRA(t *testing.T) {
	img, err := bmp.DecodeBytes(buildBMP(infoHeader(1, 1, 32, 0, 0, 0), nil, nil, []byte{0x11, 0x22, 0x33, 0x44}))
	require.NoError(t, err)
	m, err := img.AsImage()
	require.NoError(t, err)
	nrgba, ok := m.(*image.NRGBA)
	require.True(t, ok)
	require.Equal(t, []byte{0x33, 0x22, 0x11, 0x44}, nrgba.Pix)
}

func TestAsImageIndexedIsOpaque(t *testing.T) {
	// The color table's reserved byte is not an alpha channel: the
	// converted image must be opaque even though Pix carries it as 0.
	palette := palette4([4]byte{0x10, 0x20, 0x30, 0x00})
	img, err := bmp.DecodeBytes(buildBMP(infoHeader(1, 1, 8, 0, 0, 1), nil, palette, []byte{0x00, 0x00, 0x00, 0x00}))
	require.NoError(t, err)
	require.Equal(t, []byte{0x10, 0x20, 0x30, 0x00}, img.Pix)
	m, err := img.AsImage()
	require.NoError(t, err)
	nrgba := m.(*image.NRGBA)
	require.Equal(t, []byte{0x30, 0x20, 0x10, 0xFF}, nrgba.Pix)
}

func TestAsImageBGR(t *testing.T) {
	pix := []byte{0x01, 0x02, 0x03, 0x00} // one BGR pixel plus padding
	img, err := bmp.DecodeBytes(buildBMP(infoHeader(1, 1, 24, 0, 0, 0), nil, nil, pix))
	require.NoError(t, err)
	m, err := img.AsImage()
	require.NoError(t, err)
	nrgba := m.(*image.NRGBA)
	require.Equal(t, []byte{0x03, 0x02, 0x01, 0xFF}, nrgba.Pix)
}

func TestAsImageRawBitfields(t *testing.T) {
	alpha := uint32(0xC0000000)
	dib := dibWithMasks(infoHeader(1, 1, 32, 3, 0, 0), 0x3FF00000, 0x000FFC00, 0x000003FF, &alpha)
	img, err := bmp.DecodeBytes(buildBMP(dib, nil, nil, []byte{1, 2, 3, 4}))
	require.NoError(t, err)
	_, err = img.AsImage()
	require.ErrorIs(t, err, bmp.ErrRawPixels)
}

func TestImageDecodeRegistered(t *testing.T) {
	data := buildBMP(infoHeader(1, 1, 24, 0, 0, 0), nil, nil, []byte{0x01, 0x02, 0x03, 0x00})
	m, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "bmp", format)
	require.Equal(t, image.Rect(0, 0, 1, 1), m.Bounds())
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "bmp", format)
	require.Equal(t, 1, cfg.Width)
}
