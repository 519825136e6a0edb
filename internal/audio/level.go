package audio

import "math"

// ChunkLevel computes the instantaneous amplitude of a chunk of little-endian
// s16 PCM, scaled to [0,255]. Odd trailing bytes are ignored.
func ChunkLevel(pcm []byte) uint8 {
	sampleCount := len(pcm) / 2
	if sampleCount == 0 {
		return 0
	}

	var sumSquares float64
	for i := 0; i < sampleCount*2; i += 2 {
		sample := int16(uint16(pcm[i]) | uint16(pcm[i+1])<<8)
		v := float64(sample)
		sumSquares += v * v
	}

	rms := math.Sqrt(sumSquares / float64(sampleCount))
	scaled := rms / 32768.0 * 255.0
	// RMS of speech rarely approaches full scale; boost so normal speech is
	// visible on the meter, then clamp.
	scaled *= 4
	if scaled > 255 {
		scaled = 255
	}
	return uint8(scaled)
}
