package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{"data":[{"id":"1","username":"jane_smith"}]}`

func compressWith(t testing.TB, wrap func(io.Writer) (io.WriteCloser, error), data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := wrap(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func gzipWriter(w io.Writer) (io.WriteCloser, error)   { return gzip.NewWriter(w), nil }
func brotliWriter(w io.Writer) (io.WriteCloser, error) { return brotli.NewWriter(w), nil }
func zlibWriter(w io.Writer) (io.WriteCloser, error)   { return zlib.NewWriter(w), nil }
func zstdWriter(w io.Writer) (io.WriteCloser, error)   { return zstd.NewWriter(w) }
func flateWriter(w io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(w, flate.BestSpeed)
}

// gzipCompress is shared with the client tests.
func gzipCompress(data []byte) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write(data)
	_ = gz.Close()
	return buf.Bytes()
}

func TestDecodeBody(t *testing.T) {
	raw := []byte(payload)
	cases := map[string]struct {
		header  string
		body    []byte
		decoded bool
	}{
		"no header":       {"", raw, false},
		"identity":        {"identity", raw, false},
		"gzip":            {"gzip", compressWith(t, gzipWriter, raw), true},
		"brotli":          {"br", compressWith(t, brotliWriter, raw), true},
		"zstd":            {"zstd", compressWith(t, zstdWriter, raw), true},
		"zlib deflate":    {"deflate", compressWith(t, zlibWriter, raw), true},
		"raw deflate":     {"deflate", compressWith(t, flateWriter, raw), true},
		"gzip then br":    {"gzip, br", compressWith(t, brotliWriter, compressWith(t, gzipWriter, raw)), true},
		"mixed case":      {"  GZIP ", compressWith(t, gzipWriter, raw), true},
		"identity in mix": {"identity, zstd", compressWith(t, zstdWriter, raw), true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, decoded, err := DecodeBody(tc.header, tc.body)
			require.NoError(t, err)
			assert.Equal(t, tc.decoded, decoded)
			assert.JSONEq(t, payload, string(got))
		})
	}
}

func TestDecodeBody_Errors(t *testing.T) {
	_, _, err := DecodeBody("snappy", []byte(payload))
	assert.ErrorContains(t, err, `unsupported content-encoding: "snappy"`)

	_, _, err = DecodeBody("gzip", []byte("plain text"))
	assert.ErrorContains(t, err, "failed to decode gzip body")
}
