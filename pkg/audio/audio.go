// Package audio plays short tones for shot results. Sound is optional:
// when the speaker cannot be opened the trainer runs silent.
package audio

import (
	"context"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-cannon/pkg/event"
	"github.com/opd-ai/go-cannon/pkg/logging"
)

// SampleRate is the speaker sample rate
const SampleRate = beep.SampleRate(44100)

// Cue is a tone played for one kind of event
type Cue struct {
	Frequency float64 // Hz
	Duration  time.Duration
}

// Cues per event type
var (
	CueFire = Cue{Frequency: 440, Duration: 40 * time.Millisecond}
	CueHit  = Cue{Frequency: 880, Duration: 150 * time.Millisecond}
	CueMiss = Cue{Frequency: 220, Duration: 300 * time.Millisecond}
)

// Init opens the default speaker with a 100ms buffer
func Init() error {
	return speaker.Init(SampleRate, SampleRate.N(time.Second/10))
}

// Close closes the speaker opened by Init
func Close() {
	speaker.Close()
}

// Tone returns a sine streamer of cue's frequency that ends after its
// duration.
func Tone(cue Cue) (beep.Streamer, error) {
	sine, err := generators.SineTone(SampleRate, cue.Frequency)
	if err != nil {
		return nil, err
	}
	return beep.Take(SampleRate.N(cue.Duration), sine), nil
}

// Player plays cues for trainer events
type Player struct {
	play   func(...beep.Streamer)
	logger *logging.Logger

	mu   sync.Mutex
	subs []*event.Subscription
}

// NewPlayer creates a player on the speaker. Init must have succeeded.
func NewPlayer(logger *logging.Logger) *Player {
	return newPlayer(speaker.Play, logger)
}

func newPlayer(play func(...beep.Streamer), logger *logging.Logger) *Player {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Player{
		play:   play,
		logger: logger,
	}
}

// Attach subscribes the player to bus
func (p *Player) Attach(bus *event.Bus) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subs = append(p.subs,
		bus.Subscribe(event.ShotFired, p.cueHandler(CueFire)),
		bus.Subscribe(event.TargetHit, p.cueHandler(CueHit)),
		bus.Subscribe(event.ShotMissed, p.cueHandler(CueMiss)),
	)
}

// Detach cancels all subscriptions made by Attach
func (p *Player) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, sub := range p.subs {
		sub.Cancel()
	}
	p.subs = nil
}

func (p *Player) cueHandler(cue Cue) event.Handler {
	return func(event.Event) {
		p.Play(cue)
	}
}

// Play plays cue without blocking
func (p *Player) Play(cue Cue) {
	tone, err := Tone(cue)
	if err != nil {
		p.logger.Warn(context.Background(), "tone unavailable",
			"frequency", cue.Frequency,
			"error", err.Error())
		return
	}
	p.play(tone)
}
