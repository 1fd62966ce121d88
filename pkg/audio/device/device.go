// Package device streams a mixer to the default audio output through
// PortAudio.
package device

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"sandbox/internal/logger"
	"sandbox/pkg/audio"
	"sandbox/pkg/config"
)

// Stream is an open output stream pulling from a mixer.
type Stream struct {
	stream *portaudio.Stream
	logger *logger.Logger
}

// Open initializes PortAudio and starts streaming m.
func Open(m *audio.Mixer, cfg config.AudioConfig, log *logger.Logger) (*Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(0, audio.Channels, float64(cfg.SampleRate), cfg.FramesPerBuffer, m.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}

	log.Infof("Audio stream started: %d Hz, %d frames per buffer", cfg.SampleRate, cfg.FramesPerBuffer)
	return &Stream{stream: stream, logger: log}, nil
}

// Close stops the stream and shuts PortAudio down.
func (s *Stream) Close() {
	if err := s.stream.Stop(); err != nil {
		s.logger.Warnf("Failed to stop audio stream: %v", err)
	}
	if err := s.stream.Close(); err != nil {
		s.logger.Warnf("Failed to close audio stream: %v", err)
	}
	if err := portaudio.Terminate(); err != nil {
		s.logger.Warnf("Failed to terminate PortAudio: %v", err)
	}
}
