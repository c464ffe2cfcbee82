// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/staranto/famo/internal/errs"
)

// Codec identifies the stream compression layered over the tar container.
type Codec uint8

const (
	CodecNone Codec = iota
	CodecGzip
	CodecZstd
	CodecLZ4
)

// DefaultCodec is gzip, which is what earlier famo releases uploaded.
const DefaultCodec = CodecGzip

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecGzip:
		return "gzip"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// ParseCodec parses a codec from its String form.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "none":
		return CodecNone, nil
	case "gzip", "gz":
		return CodecGzip, nil
	case "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	default:
		return 0, fmt.Errorf("unknown codec: %q", name)
	}
}

// Detect identifies the codec of an encoded stream from its frame magic.
// Anything unrecognised is assumed to be an uncompressed container.
func Detect(data []byte) Codec {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return CodecGzip
	case bytes.HasPrefix(data, zstdMagic):
		return CodecZstd
	case bytes.HasPrefix(data, lz4Magic):
		return CodecLZ4
	default:
		return CodecNone
	}
}

// NewEncoder wraps w so that writes are compressed with c. The returned
// writer must be closed to flush the final frame.
func NewEncoder(w io.Writer, c Codec) (io.WriteCloser, error) {
	switch c {
	case CodecNone:
		return nopWriteCloser{w}, nil
	case CodecGzip:
		return gzip.NewWriterLevel(w, gzip.DefaultCompression)
	case CodecZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	case CodecLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported codec: %s", c)
	}
}

// NewDecoder wraps r so that reads are decompressed with c.
func NewDecoder(r io.Reader, c Codec) (io.ReadCloser, error) {
	switch c {
	case CodecNone:
		return io.NopCloser(r), nil
	case CodecGzip:
		return gzip.NewReader(r)
	case CodecZstd:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported codec: %s", c)
	}
}

// Encode compresses data with c.
func Encode(data []byte, c Codec) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, c)
	if err != nil {
		return nil, errs.Archive("encode", c.String(), err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return nil, errs.Archive("encode", c.String(), err)
	}
	if err := enc.Close(); err != nil {
		return nil, errs.Archive("encode", c.String(), err)
	}
	return buf.Bytes(), nil
}

// Decode decompresses data, choosing the codec from the frame magic so that
// artifacts written with any supported codec restore.
func Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errs.Archive("decode", "", ErrEmpty)
	}
	c := Detect(data)
	dec, err := NewDecoder(bytes.NewReader(data), c)
	if err != nil {
		return nil, errs.Archive("decode", c.String(), err)
	}
	defer dec.Close()

	out, err := io.ReadAll(dec)
	if err != nil {
		return nil, errs.Archive("decode", c.String(), err)
	}
	return out, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
