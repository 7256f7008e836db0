// Package simd provides byte-scanning primitives for the matcher
// package's hot paths (literal prefilters, Boyer-Moore/Aho-Corasick
// scanning). It previously delegated to Go's experimental
// simd/archsimd intrinsics (GOEXPERIMENT=simd, Go 1.26), but that
// build tag is not guaranteed present in a standard toolchain, so the
// package now sits directly on bytes/strings, which the compiler
// already vectorizes on amd64/arm64. Call sites elsewhere in the
// matcher package are unaffected by this swap.
package simd

import "bytes"

// IndexByte returns the index of the first occurrence of c in data, or -1 if not present.
func IndexByte(data []byte, c byte) int {
	return bytes.IndexByte(data, c)
}

// LastIndexByte returns the index of the last occurrence of c in data, or -1 if not present.
func LastIndexByte(data []byte, c byte) int {
	return bytes.LastIndexByte(data, c)
}

// Count returns the number of occurrences of c in data.
func Count(data []byte, c byte) int {
	return bytes.Count(data, []byte{c})
}

// ToLowerASCII lowercases ASCII bytes from src into dst.
// dst must be at least len(src) bytes. Non-ASCII bytes are copied unchanged.
func ToLowerASCII(dst, src []byte) {
	for i, b := range src {
		dst[i] = toLowerASCII(b)
	}
}
