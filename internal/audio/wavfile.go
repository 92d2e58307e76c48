package audio

import (
	"fmt"
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/wav"
	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-eq/dsp/gain"
)

const readChunk = 4096

// Processor filters a mono block and returns the filtered block. Successive
// calls are one continuous stream.
type Processor interface {
	Process(block []float64) []float64
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(block []float64) []float64

// Process calls f(block).
func (f ProcessorFunc) Process(block []float64) []float64 { return f(block) }

// decodeScale undoes the wav decoder's 2^bits-1 divisor for signed PCM so a
// full-scale sample decodes to ±1, matching what WriteMono encodes.
func decodeScale(precision int) float64 {
	switch precision {
	case 2:
		return float64(1<<16-1) / float64(1<<15-1)
	case 3:
		return float64(1<<24-1) / float64(1<<23-1)
	default:
		return 1
	}
}

// decodeWAV opens a WAV stream at full-scale level. The caller closes the
// returned closer.
func decodeWAV(r io.Reader) (beep.Streamer, beep.Format, io.Closer, error) {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return nil, beep.Format{}, nil, fmt.Errorf("audio: decode wav: %w", err)
	}

	leveled := &effects.Gain{Streamer: streamer, Gain: decodeScale(format.Precision) - 1}

	return leveled, format, streamer, nil
}

// ReadMono decodes a WAV stream and downmixes it to mono by averaging the
// two channels beep exposes.
func ReadMono(r io.Reader) ([]float64, beep.Format, error) {
	streamer, format, closer, err := decodeWAV(r)
	if err != nil {
		return nil, beep.Format{}, err
	}
	defer closer.Close()

	var out []float64

	buf := make([][2]float64, readChunk)
	for {
		n, ok := streamer.Stream(buf)
		for _, s := range buf[:n] {
			out = append(out, (s[0]+s[1])/2)
		}

		if !ok {
			break
		}
	}

	if err := streamer.Err(); err != nil {
		return nil, beep.Format{}, fmt.Errorf("audio: read wav: %w", err)
	}

	return out, format, nil
}

// WriteMono encodes samples as a 16-bit mono WAV stream.
func WriteMono(w io.WriteSeeker, samples []float64, sampleRate int) error {
	pos := 0
	src := beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}

		n := copy2(buf, samples[pos:])
		pos += n

		return n, true
	})

	format := beep.Format{SampleRate: beep.SampleRate(sampleRate), NumChannels: 1, Precision: 2}
	if err := wav.Encode(w, src, format); err != nil {
		return fmt.Errorf("audio: encode wav: %w", err)
	}

	return nil
}

func copy2(dst [][2]float64, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = [2]float64{src[i], src[i]}
	}

	return n
}

// FileOptions controls ProcessWAV.
type FileOptions struct {
	BlockSize   int
	Normalize   bool
	NormalizeDB float64
	FadeSamples int
}

// FileStats summarizes a ProcessWAV run.
type FileStats struct {
	SampleRate int
	Samples    int
	Blocks     int
	InputPeak  float64
	OutputPeak float64
}

// BuildFunc returns the processor for a file's sample rate.
type BuildFunc func(sampleRate float64) (Processor, error)

// ProcessWAV reads a WAV stream, filters it block by block through a
// processor built for the file's sample rate, then normalizes and fades the
// whole signal and writes 16-bit mono WAV. Nothing is written when build fails.
func ProcessWAV(r io.Reader, w io.WriteSeeker, opts FileOptions, build BuildFunc) (FileStats, error) {
	src, format, closer, err := decodeWAV(r)
	if err != nil {
		return FileStats{}, err
	}
	defer closer.Close()

	blockSize := opts.BlockSize
	if blockSize <= 0 {
		blockSize = readChunk
	}

	proc, err := build(float64(format.SampleRate))
	if err != nil {
		return FileStats{}, fmt.Errorf("audio: build processor: %w", err)
	}

	stats := FileStats{SampleRate: int(format.SampleRate)}

	filtered := NewStreamer(src, proc)
	buf := make([][2]float64, blockSize)

	var out []float64
	for {
		n, ok := filtered.Stream(buf)
		for _, s := range buf[:n] {
			out = append(out, s[0])
		}

		if n > 0 {
			stats.Blocks++
		}

		if !ok {
			break
		}
	}

	if err := filtered.Err(); err != nil {
		return FileStats{}, fmt.Errorf("audio: read wav: %w", err)
	}

	stats.Samples = len(out)
	stats.InputPeak = filtered.InputPeak()

	if opts.Normalize {
		out = gain.Normalize(out, opts.NormalizeDB)
	}

	out = gain.ApplyFade(out, opts.FadeSamples)
	stats.OutputPeak = gain.Peak(out)

	if err := WriteMono(w, out, stats.SampleRate); err != nil {
		return stats, err
	}

	log.WithFields(log.Fields{
		"rate":    stats.SampleRate,
		"samples": stats.Samples,
		"blocks":  stats.Blocks,
	}).Infof("processed file: peak %.3f -> %.3f", stats.InputPeak, stats.OutputPeak)

	return stats, nil
}

// Streamer wraps a beep.Streamer so every chunk is downmixed to mono, run
// through proc and written back to both channels.
type Streamer struct {
	src   beep.Streamer
	proc  Processor
	block []float64
	peak  float64
}

// NewStreamer returns a Streamer reading from src.
func NewStreamer(src beep.Streamer, proc Processor) *Streamer {
	return &Streamer{src: src, proc: proc}
}

// Stream implements beep.Streamer.
func (s *Streamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := s.src.Stream(samples)
	if n == 0 {
		return 0, ok
	}

	if cap(s.block) < n {
		s.block = make([]float64, n)
	}

	block := s.block[:n]
	for i, v := range samples[:n] {
		block[i] = (v[0] + v[1]) / 2
	}

	s.peak = max(s.peak, gain.Peak(block))

	copy2(samples[:n], s.proc.Process(block))

	return n, ok
}

// InputPeak returns the largest absolute mono sample read from the source so
// far, before processing.
func (s *Streamer) InputPeak() float64 { return s.peak }

// Err implements beep.Streamer.
func (s *Streamer) Err() error { return s.src.Err() }

var _ beep.Streamer = (*Streamer)(nil)
