// Package archive transparently decompresses gzip, bzip2, and zip
// buffers so FileSearcher can search inside them like any other file.
// This boundary is implemented directly on the standard library: none
// of the third-party dependencies pulled in elsewhere cover archive
// decoding, so compress/gzip, compress/bzip2, and archive/zip stand in
// rather than adding a dependency solely for this corner.
package archive

import (
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
)

var (
	gzipMagic = []byte{0x1F, 0x8B}
	bzipMagic = []byte("BZh")
	zipMagic  = []byte("PK\x03\x04")
)

// Detect reports whether data begins with a magic number this package
// knows how to decompress.
func Detect(data []byte) bool {
	return bytes.HasPrefix(data, gzipMagic) ||
		bytes.HasPrefix(data, bzipMagic) ||
		bytes.HasPrefix(data, zipMagic)
}

// Decompress expands data according to its magic number. For zip
// archives, the contents of every file member are concatenated in
// archive order, separated by a newline, since FileSearcher operates
// on one flat buffer per path. Returns the original data unmodified if
// no supported magic number is found.
func Decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return decompressGzip(data)
	case bytes.HasPrefix(data, bzipMagic):
		return decompressBzip2(data)
	case bytes.HasPrefix(data, zipMagic):
		return decompressZip(data)
	default:
		return data, nil
	}
}

func decompressGzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return out, nil
}

func decompressBzip2(data []byte) ([]byte, error) {
	out, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("bzip2: %w", err)
	}
	return out, nil
}

func decompressZip(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zip: %w", err)
	}

	var buf bytes.Buffer
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("zip: open %s: %w", f.Name, err)
		}
		_, err = io.Copy(&buf, rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zip: read %s: %w", f.Name, err)
		}
		if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}
