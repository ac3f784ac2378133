package ebitenhost

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/phanxgames/agent"
)

// SampleRate is the audio context rate used when the host creates one.
const SampleRate = 44100

// sfx is a decoded sound effect. Every Play starts a fresh player so
// overlapping frames can sound together.
type sfx struct {
	ctx *audio.Context
	pcm []byte
}

func (s *sfx) Play() {
	s.ctx.NewPlayerFromBytes(s.pcm).Play()
}

// NewSoundBank decodes every sound once into PCM for ctx. Media types
// audio/mpeg, audio/ogg and audio/wav are supported.
func NewSoundBank(ctx *audio.Context, sounds map[string]agent.AudioData) (agent.SoundBank, error) {
	bank := make(agent.SoundBank, len(sounds))
	for id, snd := range sounds {
		pcm, err := decodePCM(ctx.SampleRate(), snd)
		if err != nil {
			return nil, fmt.Errorf("ebitenhost: sound %q: %w", id, err)
		}
		bank[id] = &sfx{ctx: ctx, pcm: pcm}
	}
	return bank, nil
}

func decodePCM(sampleRate int, snd agent.AudioData) ([]byte, error) {
	r := bytes.NewReader(snd.Data)
	var (
		stream io.Reader
		err    error
	)
	switch mediaKind(snd.MediaType) {
	case "mpeg", "mp3":
		stream, err = mp3.DecodeWithSampleRate(sampleRate, r)
	case "ogg", "vorbis":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, r)
	case "wav", "x-wav", "wave":
		stream, err = wav.DecodeWithSampleRate(sampleRate, r)
	default:
		return nil, fmt.Errorf("unsupported audio format %q", snd.MediaType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", snd.MediaType, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read decoded audio: %w", err)
	}
	return pcm, nil
}

// mediaKind returns the subtype of an audio/* media type, lower-cased.
func mediaKind(mediaType string) string {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if sub, ok := strings.CutPrefix(mt, "audio/"); ok {
		return sub
	}
	return mt
}

// audioContext returns the process-wide audio context, creating it on
// first use.
func audioContext() *audio.Context {
	if ctx := audio.CurrentContext(); ctx != nil {
		return ctx
	}
	return audio.NewContext(SampleRate)
}
