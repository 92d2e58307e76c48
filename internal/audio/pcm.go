// Package audio connects the equalizer to sound devices and files: signed
// 16-bit PCM conversion, a malgo duplex stream and beep-based WAV processing.
package audio

import (
	"encoding/binary"
	"math"

	"github.com/cwbudde/algo-eq/dsp/core"
)

const (
	// BytesPerSample is the size of one S16 mono frame.
	BytesPerSample = 2

	s16Scale = 32768.0
)

// DecodeS16LE converts little-endian signed 16-bit samples to floats in
// [-1, 1). dst is reused when large enough; a trailing odd byte is ignored.
func DecodeS16LE(dst []float64, src []byte) []float64 {
	n := len(src) / BytesPerSample
	dst = core.EnsureLen(dst, n)

	for i := range n {
		v := int16(binary.LittleEndian.Uint16(src[i*BytesPerSample:]))
		dst[i] = float64(v) / s16Scale
	}

	return dst
}

// EncodeS16LE writes src to dst as little-endian signed 16-bit samples,
// rounding and clipping to [-32768, 32767]. It returns the number of samples
// written, limited by both lengths.
func EncodeS16LE(dst []byte, src []float64) int {
	n := min(len(src), len(dst)/BytesPerSample)

	for i := range n {
		binary.LittleEndian.PutUint16(dst[i*BytesPerSample:], uint16(ToS16(src[i])))
	}

	return n
}

// ToS16 converts one float sample to a clipped signed 16-bit value. NaN maps
// to zero.
func ToS16(x float64) int16 {
	if math.IsNaN(x) {
		return 0
	}

	return int16(core.Clamp(math.Round(x*s16Scale), math.MinInt16, math.MaxInt16))
}
