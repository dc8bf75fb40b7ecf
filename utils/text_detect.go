package utils

const textSampleSize = 4096

// LooksLikeText is a cheap heuristic over the first 4 KiB of data. Any NUL byte
// marks the buffer as binary, as does a share of control bytes of 5% or more.
// An empty buffer counts as text.
func LooksLikeText(data []byte) bool {
	sample := len(data)
	if sample > textSampleSize {
		sample = textSampleSize
	}
	if sample == 0 {
		return true
	}
	suspicious := 0
	for _, c := range data[:sample] {
		if c == 0 {
			return false
		}
		if c < 0x09 || (c >= 0x0E && c < 0x20) {
			suspicious++
		}
	}
	return suspicious*100/sample < 5
}
