package game

import (
	"math/rand"
)

// Bot pacing. A bot never acts synchronously: handlers jolt it with a
// random think countdown, the countdown ages one tick at a time, and
// once it elapses the decision hook runs each tick until it yields an
// action ID. The ID is queued and executed on a later tick pass, which
// bounds per-tick work to one action per bot and keeps turn ordering
// intact.

// JoltBot schedules a bot to think for a random number of ticks within
// [minTicks, maxTicks]. No-op for humans.
func JoltBot(p *Player, minTicks, maxTicks int) {
	if p == nil || !p.IsBot {
		return
	}
	if maxTicks < minTicks {
		maxTicks = minTicks
	}
	p.ThinkTicks = minTicks + rand.Intn(maxTicks-minTicks+1)
	p.PendingBotAction = ""
}

// JoltBots jolts every bot at the table.
func (b *BaseGame) JoltBots(minTicks, maxTicks int) {
	for _, p := range b.Players {
		JoltBot(p, minTicks, maxTicks)
	}
}

// TickBots runs one pacing pass. Games call this from OnTick after their
// own timers. For each bot, in seat order: a queued action executes
// (exactly one); otherwise the countdown ages; once elapsed the decision
// hook may queue an action for the next pass.
func (b *BaseGame) TickBots() {
	for _, p := range b.Players {
		if !p.IsBot {
			continue
		}
		if p.PendingBotAction != "" {
			id := p.PendingBotAction
			p.PendingBotAction = ""
			b.ExecuteAction(p, id)
			continue
		}
		if p.ThinkTicks > 0 {
			p.ThinkTicks--
			continue
		}
		if id := b.self.BotThink(p); id != "" {
			p.PendingBotAction = id
		}
	}
}

// TickBase advances the shared per-tick machinery: scheduled sounds,
// then bot pacing. Concrete OnTick implementations call this last.
func (b *BaseGame) TickBase() {
	b.tickSounds()
	if b.GameActive {
		b.TickBots()
	}
}
