package httpx

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// AcceptEncoding is advertised on outgoing requests; every listed coding
// is understood by DecodeBody.
const AcceptEncoding = "gzip, br, zstd, deflate"

// DecodeBody undoes a Content-Encoding header value, applying codings in
// reverse order. It reports whether the body changed.
func DecodeBody(contentEncoding string, body []byte) ([]byte, bool, error) {
	if contentEncoding == "" {
		return body, false, nil
	}
	codings := strings.Split(contentEncoding, ",")
	changed := false
	for i := len(codings) - 1; i >= 0; i-- {
		coding := strings.TrimSpace(strings.ToLower(codings[i]))
		var (
			out []byte
			err error
		)
		switch coding {
		case "", "identity", "compress":
			continue
		case "br":
			out, err = io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		case "gzip":
			out, err = gunzip(body)
		case "zstd":
			out, err = unzstd(body)
		case "deflate":
			out, err = inflate(body)
		default:
			return nil, false, fmt.Errorf("unsupported content-encoding: %q", codings[i])
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to decode %s body: %w", coding, err)
		}
		body = out
		changed = true
	}
	return body, changed, nil
}

func gunzip(body []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	return io.ReadAll(gr)
}

func unzstd(body []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

// inflate accepts zlib-wrapped deflate and falls back to raw deflate.
func inflate(body []byte) ([]byte, error) {
	if zr, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
		defer zr.Close()
		return io.ReadAll(zr)
	}
	fr := flate.NewReader(bytes.NewReader(body))
	defer fr.Close()
	return io.ReadAll(fr)
}
