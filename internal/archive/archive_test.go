package archive

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"testing"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want bool
	}{
		{"gzip", []byte{0x1F, 0x8B, 0x08}, true},
		{"bzip2", []byte("BZh91AY"), true},
		{"zip", []byte("PK\x03\x04 rest"), true},
		{"plain", []byte("hello world"), false},
		{"empty", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.data); got != tc.want {
				t.Errorf("Detect(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestDecompress_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte("hello gzip world\n"))
	zw.Close()

	out, err := Decompress(buf.Bytes())
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(out) != "hello gzip world\n" {
		t.Errorf("got %q", out)
	}
}

func TestDecompress_Zip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("a.txt")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("first file"))
	w, err = zw.Create("b.txt")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("second file"))
	zw.Close()

	out, err := Decompress(buf.Bytes())
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Contains(out, []byte("first file")) || !bytes.Contains(out, []byte("second file")) {
		t.Errorf("expected both zip members in output, got %q", out)
	}
}

func TestDecompress_Passthrough(t *testing.T) {
	data := []byte("plain text, no magic number")
	out, err := Decompress(data)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("expected passthrough, got %q", out)
	}
}

func TestDecompress_GzipInvalid(t *testing.T) {
	_, err := Decompress([]byte{0x1F, 0x8B, 0xFF, 0xFF})
	if err == nil {
		t.Error("expected error decompressing invalid gzip data")
	}
}
