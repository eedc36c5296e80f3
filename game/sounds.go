package game

import (
	"github.com/James-Trimble/PlayPalace11/users"
)

// scheduledSound is a sound effect queued with a tick delay so audio
// lands after the speech that explains it. Runtime-only; pending sounds
// are dropped across a save/restore.
type scheduledSound struct {
	name       string
	ticksLeft  int
	playerID   string // "" broadcasts to the whole table
	spectators bool
}

// ScheduleSound queues a sound for every attached user after delayTicks.
func (b *BaseGame) ScheduleSound(name string, delayTicks int) {
	b.sounds = append(b.sounds, scheduledSound{
		name:       name,
		ticksLeft:  delayTicks,
		spectators: true,
	})
}

// ScheduleSoundFor queues a sound for a single player.
func (b *BaseGame) ScheduleSoundFor(p *Player, name string, delayTicks int) {
	if p == nil {
		return
	}
	b.sounds = append(b.sounds, scheduledSound{
		name:      name,
		ticksLeft: delayTicks,
		playerID:  p.ID,
	})
}

// tickSounds ages the queue and emits anything due.
func (b *BaseGame) tickSounds() {
	if len(b.sounds) == 0 {
		return
	}
	remaining := b.sounds[:0]
	for _, s := range b.sounds {
		if s.ticksLeft > 0 {
			s.ticksLeft--
			remaining = append(remaining, s)
			continue
		}
		b.emitSound(s)
	}
	b.sounds = remaining
}

func (b *BaseGame) emitSound(s scheduledSound) {
	if s.playerID != "" {
		if u := b.User(b.PlayerByID(s.playerID)); u != nil {
			users.PlaySound(u, s.name)
		}
		return
	}
	for _, p := range b.Players {
		if u := b.User(p); u != nil {
			users.PlaySound(u, s.name)
		}
	}
}

// PlayMusic queues a music change for every attached user.
func (b *BaseGame) PlayMusic(name string) {
	for _, p := range b.Players {
		if u := b.User(p); u != nil {
			users.PlayMusic(u, name)
		}
	}
}
