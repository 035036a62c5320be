// Package pcmfmt derives codec stream parameters (rate and word width) from
// audio container headers, so a file can drive hw_params directly.
package pcmfmt

import (
	"bytes"
	"errors"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	ErrNotWAV           = errors.New("pcmfmt: not a WAV file")
	ErrNotPCM           = errors.New("pcmfmt: not integer PCM")
	ErrUnsupportedDepth = errors.New("pcmfmt: unsupported bit depth")
	ErrChannels         = errors.New("pcmfmt: codec carries one or two channels")
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xfffe
)

// Format is the stream shape read from a header.
type Format struct {
	RateHz   uint32
	Channels uint16
	BitDepth uint16
}

// Width returns the codec word length for the stream. 20-bit samples are
// carried in 20 or 24-bit containers; only 16, 20 and 24 map onto the
// interface.
func (f Format) Width() (uint8, error) {
	switch f.BitDepth {
	case 16, 20, 24:
		return uint8(f.BitDepth), nil
	}
	return 0, ErrUnsupportedDepth
}

// Audio returns the go-audio view of the format. The codec interface has a
// left and a right slot, so anything other than mono or stereo is rejected.
func (f Format) Audio() (*audio.Format, error) {
	if f.Channels < 1 || f.Channels > 2 {
		return nil, ErrChannels
	}
	return &audio.Format{NumChannels: int(f.Channels), SampleRate: int(f.RateHz)}, nil
}

// FromWAV reads the RIFF/WAVE header from r. Readers that cannot seek are
// buffered in memory first.
func FromWAV(r io.Reader) (Format, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return Format{}, err
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return Format{}, ErrNotWAV
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return Format{}, errors.Join(ErrNotWAV, err)
	}
	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return Format{}, ErrNotPCM
	}

	af := dec.Format()
	f := Format{
		RateHz:   uint32(af.SampleRate),
		Channels: uint16(af.NumChannels),
		BitDepth: dec.BitDepth,
	}
	if _, err := f.Width(); err != nil {
		return f, err
	}
	return f, nil
}
