package simd

import "bytes"

// Index returns the index of the first occurrence of pattern in data, or -1 if not present.
func Index(data, pattern []byte) int {
	return bytes.Index(data, pattern)
}

// IndexAll returns all byte offsets where pattern occurs in data.
// Non-overlapping matches only.
func IndexAll(data, pattern []byte) []int {
	plen := len(pattern)
	switch {
	case plen == 0:
		return nil
	case plen > len(data):
		return nil
	}

	var stackBuf [16]int
	n := 0
	var overflow []int
	i := 0

	for {
		idx := bytes.Index(data[i:], pattern)
		if idx < 0 {
			break
		}
		pos := i + idx
		if n < len(stackBuf) {
			stackBuf[n] = pos
		} else {
			if overflow == nil {
				overflow = make([]int, 0, 64)
				overflow = append(overflow, stackBuf[:]...)
			}
			overflow = append(overflow, pos)
		}
		n++
		i = pos + plen
	}

	if n == 0 {
		return nil
	}
	if overflow != nil {
		return overflow
	}
	result := make([]int, n)
	copy(result, stackBuf[:n])
	return result
}

// IndexCaseInsensitive returns the index of the first case-insensitive occurrence of pattern in data.
// Pattern must be pre-lowered. Only handles ASCII case folding.
func IndexCaseInsensitive(data, patternLower []byte) int {
	plen := len(patternLower)
	switch {
	case plen == 0:
		return 0
	case plen > len(data):
		return -1
	}

	limit := len(data) - plen + 1
	for i := 0; i < limit; i++ {
		if matchCaseInsensitive(data[i:i+plen], patternLower) {
			return i
		}
	}
	return -1
}

// IndexAllCaseInsensitive returns all byte offsets of case-insensitive, non-overlapping matches.
func IndexAllCaseInsensitive(data, patternLower []byte) []int {
	plen := len(patternLower)
	if plen == 0 || plen > len(data) {
		return nil
	}

	var stackBuf [16]int
	n := 0
	var overflow []int
	limit := len(data) - plen + 1

	for i := 0; i < limit; i++ {
		if matchCaseInsensitive(data[i:i+plen], patternLower) {
			if n < len(stackBuf) {
				stackBuf[n] = i
			} else {
				if overflow == nil {
					overflow = make([]int, 0, 64)
					overflow = append(overflow, stackBuf[:]...)
				}
				overflow = append(overflow, i)
			}
			n++
			i += plen - 1
		}
	}

	if n == 0 {
		return nil
	}
	if overflow != nil {
		return overflow
	}
	result := make([]int, n)
	copy(result, stackBuf[:n])
	return result
}

func matchCaseInsensitive(data, patternLower []byte) bool {
	for i, b := range data {
		if toLowerASCII(b) != patternLower[i] {
			return false
		}
	}
	return true
}

func toLowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
