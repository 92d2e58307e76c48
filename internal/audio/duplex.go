package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ErrNotOpen is returned when a closed stream is used.
var ErrNotOpen = errors.New("audio: stream is not open")

// PCMProcessor turns one block of S16LE mono input into the same number of
// output samples. It is called from the device thread.
type PCMProcessor interface {
	ProcessPCM(out, in []byte)
}

// DuplexConfig selects the stream format and devices. Device names match by
// case-insensitive substring; empty means the system default.
type DuplexConfig struct {
	SampleRate   int
	BufferFrames int
	CaptureName  string
	PlaybackName string
	AlsaNoMMap   bool
}

// DuplexStream is an open full-duplex S16 mono device. Close releases the
// device and the backend context; a stream is meant to be scoped as
//
//	s, err := audio.OpenDuplex(cfg, eq)
//	...
//	defer s.Close()
type DuplexStream struct {
	mu      sync.Mutex
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	session uuid.UUID
	log     *log.Entry
}

// OpenDuplex initializes the backend and a duplex device that feeds every
// captured block through proc to the playback side. The device is not
// started.
func OpenDuplex(cfg DuplexConfig, proc PCMProcessor) (*DuplexStream, error) {
	s := &DuplexStream{session: uuid.New()}
	s.log = log.WithField("session", s.session.String())

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		s.log.Debug(strings.TrimSpace(msg))
	})
	if err != nil {
		return nil, fmt.Errorf("audio: init context: %w", err)
	}

	s.ctx = ctx

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Duplex)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(cfg.BufferFrames)

	if cfg.AlsaNoMMap {
		deviceConfig.Alsa.NoMMap = 1
	}

	if cfg.CaptureName != "" {
		if info, ok := findDevice(ctx, malgo.Capture, cfg.CaptureName); ok {
			deviceConfig.Capture.DeviceID = info.ID.Pointer()
			s.log.Infof("capture device: %s", info.Name())
		} else {
			s.log.Warnf("capture device %q not found, using default", cfg.CaptureName)
		}
	}

	if cfg.PlaybackName != "" {
		if info, ok := findDevice(ctx, malgo.Playback, cfg.PlaybackName); ok {
			deviceConfig.Playback.DeviceID = info.ID.Pointer()
			s.log.Infof("playback device: %s", info.Name())
		} else {
			s.log.Warnf("playback device %q not found, using default", cfg.PlaybackName)
		}
	}

	onFrames := func(out, in []byte, _ uint32) {
		if len(in) == 0 {
			clear(out)
			return
		}

		proc.ProcessPCM(out, in)
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onFrames})
	if err != nil {
		s.releaseContext()
		return nil, fmt.Errorf("audio: init device: %w", err)
	}

	s.device = device
	s.log.Infof("duplex stream opened: %d Hz, %d frames per buffer", device.SampleRate(), cfg.BufferFrames)

	return s, nil
}

// Session returns the id attached to this stream's log entries.
func (s *DuplexStream) Session() uuid.UUID { return s.session }

// Run starts the device and blocks until ctx is done. The device is stopped,
// not closed, on return.
func (s *DuplexStream) Run(ctx context.Context) error {
	s.mu.Lock()
	device := s.device
	s.mu.Unlock()

	if device == nil {
		return ErrNotOpen
	}

	if err := device.Start(); err != nil {
		return fmt.Errorf("audio: start device: %w", err)
	}

	s.log.Info("stream running")

	<-ctx.Done()

	if err := device.Stop(); err != nil {
		return fmt.Errorf("audio: stop device: %w", err)
	}

	s.log.Info("stream stopped")

	return nil
}

// Close releases the device and backend. It is safe to call more than once.
func (s *DuplexStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.device == nil && s.ctx == nil {
		return nil
	}

	if s.device != nil {
		s.device.Uninit()
		s.device = nil
	}

	s.releaseContext()
	s.log.Info("stream closed")

	return nil
}

func (s *DuplexStream) releaseContext() {
	if s.ctx != nil {
		_ = s.ctx.Uninit()
		s.ctx.Free()
		s.ctx = nil
	}
}

func findDevice(ctx *malgo.AllocatedContext, kind malgo.DeviceType, name string) (malgo.DeviceInfo, bool) {
	infos, err := ctx.Devices(kind)
	if err != nil {
		return malgo.DeviceInfo{}, false
	}

	for _, info := range infos {
		if strings.Contains(strings.ToLower(info.Name()), strings.ToLower(name)) {
			return info, true
		}
	}

	return malgo.DeviceInfo{}, false
}

// DeviceNames lists capture and playback device names known to the backend.
func DeviceNames() (capture, playback []string, err error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("audio: init context: %w", err)
	}

	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	for _, kind := range []malgo.DeviceType{malgo.Capture, malgo.Playback} {
		infos, err := ctx.Devices(kind)
		if err != nil {
			return nil, nil, fmt.Errorf("audio: list devices: %w", err)
		}

		for _, info := range infos {
			if kind == malgo.Capture {
				capture = append(capture, info.Name())
			} else {
				playback = append(playback, info.Name())
			}
		}
	}

	return capture, playback, nil
}
