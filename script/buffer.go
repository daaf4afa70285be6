package script

// maxDelayChunk is the longest pause one delay pair can hold.
const maxDelayChunk = 0xff

// addBytes appends a key group and pads it with 0x00 to an even length, so
// every group starts on a key/modifier pair boundary.
func addBytes(buf, group []byte) []byte {
	buf = append(buf, group...)
	if len(group)%2 != 0 {
		buf = append(buf, 0x00)
	}
	return buf
}

// appendDelay encodes ms as [0x00, n] pairs of at most 255 ms each.
func appendDelay(buf []byte, ms int64) []byte {
	for ms > 0 {
		n := ms
		if n > maxDelayChunk {
			n = maxDelayChunk
		}
		buf = append(buf, 0x00, byte(n))
		ms -= n
	}
	return buf
}

// appendCharDelay is the STRING_DELAY pause: ms/255 bytes of 0xFF then the
// remainder, without the leading 0x00 of a DELAY pair.
func appendCharDelay(buf []byte, ms int64) []byte {
	for i := int64(0); i < ms/maxDelayChunk; i++ {
		buf = append(buf, 0xff)
	}
	return append(buf, byte(ms%maxDelayChunk))
}
