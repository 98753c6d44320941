package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/gruntwork-io/go-commons/errors"

	"github.com/robmorgan/encore/config"
)

// resampleQuality is beep's resampler quality knob. 4 is the documented
// sweet spot between CPU cost and artifacts.
const resampleQuality = 4

// SpeakerOutput drives the machine's audio device through beep's speaker.
// It owns one mixer wrapped in a master gain stage; every opened handle
// mixes into that chain.
type SpeakerOutput struct {
	sampleRate beep.SampleRate
	mixer      *beep.Mixer
	master     *effects.Gain
}

// NewSpeakerOutput initializes the speaker once with the configured sample
// rate and buffer length and starts the master chain.
func NewSpeakerOutput(cfg config.EncoreConfig) (*SpeakerOutput, error) {
	sr := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(sr, sr.N(cfg.BufferLength)); err != nil {
		return nil, errors.WithStackTrace(err)
	}

	mixer := &beep.Mixer{}
	master := &effects.Gain{Streamer: mixer, Gain: cfg.MasterGain - 1}
	speaker.Play(master)

	return &SpeakerOutput{
		sampleRate: sr,
		mixer:      mixer,
		master:     master,
	}, nil
}

// Open decodes path, seeks to the in point and trims playback to the
// [in, out) window. The source is resampled when its rate differs from the
// speaker's.
func (o *SpeakerOutput) Open(path string, in, out float64) (Handle, error) {
	stream, format, err := decode(path)
	if err != nil {
		return nil, err
	}

	if in > 0 {
		if err := stream.Seek(format.SampleRate.N(secondsToDuration(in))); err != nil {
			stream.Close()
			return nil, errors.WithStackTrace(err)
		}
	}

	var chain beep.Streamer = beep.Take(format.SampleRate.N(secondsToDuration(out-in)), stream)
	if format.SampleRate != o.sampleRate {
		chain = beep.Resample(resampleQuality, format.SampleRate, o.sampleRate, chain)
	}

	gain := &effects.Gain{Streamer: chain, Gain: -1} // silent until the engine sets a level
	ctrl := &beep.Ctrl{Streamer: gain}

	return &speakerHandle{out: o, src: stream, gain: gain, ctrl: ctrl}, nil
}

// SetMasterGain scales everything mixing through the output.
func (o *SpeakerOutput) SetMasterGain(g float64) {
	speaker.Lock()
	o.master.Gain = g - 1
	speaker.Unlock()
}

// Close shuts the speaker down.
func (o *SpeakerOutput) Close() error {
	speaker.Close()
	return nil
}

// speakerHandle is one cue instance's ctrl+gain pair on the shared mixer.
type speakerHandle struct {
	out    *SpeakerOutput
	src    beep.StreamSeekCloser
	gain   *effects.Gain
	ctrl   *beep.Ctrl
	closed bool
}

func (h *speakerHandle) Start() {
	speaker.Lock()
	h.out.mixer.Add(h.ctrl)
	speaker.Unlock()
}

func (h *speakerHandle) SetGain(g float64) {
	speaker.Lock()
	h.gain.Gain = g - 1
	speaker.Unlock()
}

// Close detaches the instance from the mixer (the mixer drops a drained
// streamer on its next pass) and closes the source media.
func (h *speakerHandle) Close() {
	if h.closed {
		return
	}
	h.closed = true

	speaker.Lock()
	h.ctrl.Streamer = nil
	speaker.Unlock()
	h.src.Close()
}

// decode opens path and decodes it with the decoder matching its extension.
func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, errors.WithStackTrace(err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch ext {
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".ogg", ".oga":
		stream, format, err = vorbis.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, errors.WithStackTrace(err)
	}
	return stream, format, nil
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
