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

import "errors"

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	// Truncated means the buffer is shorter than a required header or
	// pixel region.
	Truncated ErrorKind = iota
	// NotABmp means the file does not start with the 'BM' magic.
	NotABmp
	// BadOffset means a declared offset points beyond the buffer end.
	BadOffset
	// UnsupportedDib means the DIB header size is not a known variant.
	UnsupportedDib
	// InvalidField means a header field holds a value the format does
	// not permit: zero width or height, planes other than 1, or an
	// unsupported bit depth.
	InvalidField
	// MissingPalette means an indexed decode was requested but the file
	// carries no color table.
	MissingPalette
	// UnsupportedCompression means the (bit depth, compression)
	// combination has no decode path.
	UnsupportedCompression
)

func (k ErrorKind) String() string {
	switch k {
	case Truncated:
		return "truncated"
	case NotABmp:
		return "not a BMP"
	case BadOffset:
		return "bad offset"
	case UnsupportedDib:
		return "unsupported DIB header"
	case InvalidField:
		return "invalid field"
	case MissingPalette:
		return "missing palette"
	case UnsupportedCompression:
		return "unsupported compression"
	}
	return "unknown error"
}

// A ParseError reports that the input is not a decodable BMP, naming
// the field or region that failed.
type ParseError struct {
	Kind    ErrorKind
	Context string
}

func (e *ParseError) Error() string {
	return "bmp: " + e.Kind.String() + ": " + e.Context
}

func parseError(kind ErrorKind, context string) error {
	return &ParseError{Kind: kind, Context: context}
}

// ErrRawPixels reports that an Image holds raw bitfield or embedded
// stream bytes and cannot be converted to an image.Image.
var ErrRawPixels = errors.New("bmp: raw pixel data cannot be converted to image.Image")
