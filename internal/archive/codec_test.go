// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/famo/internal/errs"
)

func TestEncodeDecode(t *testing.T) {
	payloads := map[string][]byte{
		"small":      {1, 2, 3, 4, 5, 6, 7, 8},
		"repetitive": bytes.Repeat([]byte("target/debug/deps/"), 4096),
		"single":     {0},
	}

	for _, c := range []Codec{CodecNone, CodecGzip, CodecZstd, CodecLZ4} {
		for name, data := range payloads {
			t.Run(c.String()+"/"+name, func(t *testing.T) {
				encoded, err := Encode(data, c)
				require.NoError(t, err)
				if c != CodecNone {
					assert.Equal(t, c, Detect(encoded))
				}

				decoded, err := Decode(encoded)
				require.NoError(t, err)
				assert.Equal(t, data, decoded)
			})
		}
	}
}

func TestEncodeCompresses(t *testing.T) {
	data := bytes.Repeat([]byte("node_modules/.bin/"), 8192)
	for _, c := range []Codec{CodecGzip, CodecZstd, CodecLZ4} {
		encoded, err := Encode(data, c)
		require.NoError(t, err)
		assert.Less(t, len(encoded), len(data)/4, "codec %s", c)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "truncated gzip header", data: []byte{0x1f, 0x8b, 'g', 'a', 'r', 'b'}},
		{name: "corrupt zstd frame", data: append([]byte{0x28, 0xb5, 0x2f, 0xfd}, bytes.Repeat([]byte{0xff}, 32)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			assert.ErrorIs(t, err, errs.ErrArchive)
		})
	}
}

func TestDecodeTruncatedStream(t *testing.T) {
	encoded, err := Encode(bytes.Repeat([]byte("abcdefgh"), 1024), CodecGzip)
	require.NoError(t, err)

	_, err = Decode(encoded[:len(encoded)/2])
	assert.ErrorIs(t, err, errs.ErrArchive)
}

func TestParseCodec(t *testing.T) {
	tests := []struct {
		in      string
		want    Codec
		wantErr bool
	}{
		{in: "gzip", want: CodecGzip},
		{in: "gz", want: CodecGzip},
		{in: "zstd", want: CodecZstd},
		{in: "lz4", want: CodecLZ4},
		{in: "none", want: CodecNone},
		{in: "brotli", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCodec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "unknown(9)", Codec(9).String())
}
