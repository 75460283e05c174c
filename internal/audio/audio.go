// Package audio is a channel-based 2D mixer: scripts address a fixed set of
// numbered channels, each playing at most one clip at a time. Clips load
// lazily from the resources directory and stay cached for the session.
package audio

import (
	"fmt"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/jack-chaudier/fr-ocean-engine/internal/engine"
)

// ChannelCount is the number of addressable mixer channels.
const ChannelCount = 50

// clipExtensions are tried in order when resolving a clip name.
var clipExtensions = []string{".wav", ".ogg", ".mp3"}

type channel struct {
	sound   rl.Sound
	loop    bool
	active  bool
	hasClip bool
}

// Mixer owns the audio device, the clip cache and the channel table.
type Mixer struct {
	log      *zap.Logger
	audioDir string
	clips    map[string]rl.Sound
	channels [ChannelCount]channel
}

func NewMixer(resourcesDir string, log *zap.Logger) *Mixer {
	rl.InitAudioDevice()
	return &Mixer{
		log:      log,
		audioDir: filepath.Join(resourcesDir, "audio"),
		clips:    make(map[string]rl.Sound),
	}
}

// Close stops all channels, unloads cached clips and shuts the device down.
func (m *Mixer) Close() {
	for i := range m.channels {
		m.Halt(i)
	}
	for name, sound := range m.clips {
		rl.UnloadSound(sound)
		delete(m.clips, name)
	}
	rl.CloseAudioDevice()
}

// Play starts a clip on the given channel, replacing whatever was playing
// there. A missing clip is an error the frame loop treats as fatal.
func (m *Mixer) Play(channelIndex int, clipName string, loop bool) error {
	if channelIndex < 0 || channelIndex >= ChannelCount {
		return fmt.Errorf("%w: audio channel %d out of range [0,%d)",
			engine.ErrAudio, channelIndex, ChannelCount)
	}
	sound, err := m.loadClip(clipName)
	if err != nil {
		return err
	}

	ch := &m.channels[channelIndex]
	if ch.active {
		rl.StopSound(ch.sound)
	}
	ch.sound = sound
	ch.loop = loop
	ch.active = true
	ch.hasClip = true
	rl.PlaySound(sound)
	return nil
}

// Halt silences a channel. Out-of-range or idle channels are a no-op.
func (m *Mixer) Halt(channelIndex int) {
	if channelIndex < 0 || channelIndex >= ChannelCount {
		return
	}
	ch := &m.channels[channelIndex]
	if ch.active {
		rl.StopSound(ch.sound)
		ch.active = false
	}
	ch.loop = false
}

// SetVolume sets a channel's volume on the 0-128 scale scripts use.
func (m *Mixer) SetVolume(channelIndex int, volume float64) {
	if channelIndex < 0 || channelIndex >= ChannelCount {
		return
	}
	if volume < 0 {
		volume = 0
	}
	if volume > 128 {
		volume = 128
	}
	ch := &m.channels[channelIndex]
	if ch.hasClip {
		rl.SetSoundVolume(ch.sound, float32(volume/128.0))
	}
}

// Update re-triggers looping channels whose clip ran out. Called once per
// frame.
func (m *Mixer) Update() {
	for i := range m.channels {
		ch := &m.channels[i]
		if !ch.active || rl.IsSoundPlaying(ch.sound) {
			continue
		}
		if ch.loop {
			rl.PlaySound(ch.sound)
		} else {
			ch.active = false
		}
	}
}

func (m *Mixer) loadClip(name string) (rl.Sound, error) {
	if sound, ok := m.clips[name]; ok {
		return sound, nil
	}
	for _, ext := range clipExtensions {
		path := filepath.Join(m.audioDir, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		sound := rl.LoadSound(path)
		m.log.Debug("loaded audio clip", zap.String("clip", name))
		m.clips[name] = sound
		return sound, nil
	}
	return rl.Sound{}, engine.ResourceNotFound("audio clip", name)
}
