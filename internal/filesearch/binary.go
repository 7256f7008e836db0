package filesearch

import "bytes"

// utf8BOM is the UTF-8 byte-order-mark some text editors prepend; files
// starting with it are text even though byte counting alone might flag
// them as suspicious.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// pdfMagic identifies a PDF file, which is binary despite often holding
// long runs of printable ASCII in its header.
var pdfMagic = []byte("%PDF-")

// maxScanBytes bounds how much of a file IsBinary inspects, matching
// the heuristic of only sniffing the first chunk of a file.
const maxScanBytes = 512

// IsBinary reports whether data looks like a binary file rather than
// text, used to silently skip binary files the way ripgrep and ag do.
// It checks, in order: a UTF-8 BOM (always text), the PDF magic bytes
// (always binary), a NUL byte in the first maxScanBytes (binary), and otherwise
// falls back to a ratio of non-printable bytes in the sampled prefix.
func IsBinary(data []byte) bool {
	if bytes.HasPrefix(data, utf8BOM) {
		return false
	}
	if bytes.HasPrefix(data, pdfMagic) {
		return true
	}

	limit := min(len(data), maxScanBytes)
	sample := data[:limit]

	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	if limit == 0 {
		return false
	}

	suspicious := countSuspiciousBytes(sample)
	// More than ~10% non-text bytes in the sample: treat as binary.
	return suspicious*10 > limit
}

// countSuspiciousBytes walks sample counting bytes that don't belong in
// plain text, skipping over the trailing bytes of a valid UTF-8 2- or
// 3-byte lead sequence so properly encoded multi-byte text isn't
// penalized the way a genuinely invalid high-bit byte is.
func countSuspiciousBytes(sample []byte) int {
	suspicious := 0
	for i := 0; i < len(sample); i++ {
		b := sample[i]
		if !isSuspiciousByte(b) {
			continue
		}
		switch {
		case b >= 0xC0 && b < 0xE0:
			i++
			if i >= len(sample) {
				continue
			}
			if isContinuation(sample[i]) {
				continue
			}
		case b >= 0xE0 && b < 0xF0:
			i += 2
			if i >= len(sample) {
				continue
			}
			if isContinuation(sample[i-1]) && isContinuation(sample[i]) {
				continue
			}
		}
		suspicious++
	}
	return suspicious
}

func isContinuation(b byte) bool {
	return b >= 0x80 && b < 0xC0
}

// isSuspiciousByte reports whether b is a candidate for the suspicious
// count: anything outside printable ASCII, {BS, HT, LF, FF, CR}
// whitespace, and high-bit-set bytes that open a UTF-8 lead sequence.
// countSuspiciousBytes resolves whether a high-bit byte actually starts
// a valid encoded sequence before counting it.
func isSuspiciousByte(b byte) bool {
	switch {
	case b == 0x08 || b == 0x09 || b == 0x0A || b == 0x0C || b == 0x0D:
		return false // BS, HT, LF, FF, CR
	case b >= 0x20 && b <= 0x7f:
		return false // printable ASCII, plus DEL which the original table also exempts
	default:
		return true // other control characters below 0x20, and high-bit bytes
	}
}
