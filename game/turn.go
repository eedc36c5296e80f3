package game

// Turn order helpers. The turn order is an ordered subset of active
// players; it never includes spectators. current player is undefined
// (nil) while no turn order is set.

// SetTurnPlayers initializes the rotation from the given players,
// starting at the first seat, direction forward.
func (b *BaseGame) SetTurnPlayers(players []*Player) {
	b.TurnPlayerIDs = make([]string, 0, len(players))
	for _, p := range players {
		if !p.IsSpectator {
			b.TurnPlayerIDs = append(b.TurnPlayerIDs, p.ID)
		}
	}
	b.TurnIndex = 0
	b.TurnDirection = 1
	b.PendingSkips = 0
}

// CurrentPlayer returns the player whose action is currently valid, or
// nil when no turn order is set.
func (b *BaseGame) CurrentPlayer() *Player {
	if len(b.TurnPlayerIDs) == 0 {
		return nil
	}
	idx := b.TurnIndex % len(b.TurnPlayerIDs)
	if idx < 0 {
		idx += len(b.TurnPlayerIDs)
	}
	return b.PlayerByID(b.TurnPlayerIDs[idx])
}

// Advance moves the turn pointer by direction*(1+skipCount) seats.
// skipCount models "skip the next N players" effects.
func (b *BaseGame) Advance(skipCount int) {
	n := len(b.TurnPlayerIDs)
	if n == 0 {
		return
	}
	b.TurnIndex = (b.TurnIndex + b.TurnDirection*(1+skipCount)) % n
	if b.TurnIndex < 0 {
		b.TurnIndex += n
	}
}

// SkipNextPlayers queues skips consumed by the next AdvanceTurn call.
func (b *BaseGame) SkipNextPlayers(count int) {
	b.PendingSkips += count
}

// AdvanceTurn moves to the next player, consuming any queued skips.
func (b *BaseGame) AdvanceTurn() {
	skips := b.PendingSkips
	b.PendingSkips = 0
	b.Advance(skips)
}

// ReverseTurnDirection flips the rotation. With exactly two active
// players a reverse behaves like a skip; callers special-case that by
// pairing the reverse with SkipNextPlayers(1).
func (b *BaseGame) ReverseTurnDirection() {
	b.TurnDirection = -b.TurnDirection
}

// NextPlayerID peeks at who acts after the current player, respecting
// direction but not queued skips.
func (b *BaseGame) NextPlayerID() string {
	n := len(b.TurnPlayerIDs)
	if n == 0 {
		return ""
	}
	idx := (b.TurnIndex + b.TurnDirection) % n
	if idx < 0 {
		idx += n
	}
	return b.TurnPlayerIDs[idx]
}

// IsCurrentPlayer reports whether p holds the turn.
func (b *BaseGame) IsCurrentPlayer(p *Player) bool {
	current := b.CurrentPlayer()
	return current != nil && p != nil && current.ID == p.ID
}

// AnnounceTurn broadcasts whose turn it is and plays the turn sound for
// the acting human if their preferences ask for it.
func (b *BaseGame) AnnounceTurn(sound string) {
	current := b.CurrentPlayer()
	if current == nil {
		return
	}
	for _, p := range b.Players {
		u := b.User(p)
		if u == nil {
			continue
		}
		if p.ID == current.ID {
			b.SpeakTo(p, "your-turn", nil)
			if nu, ok := u.(interface{ TurnSoundEnabled() bool }); !ok || nu.TurnSoundEnabled() {
				if sound != "" {
					b.ScheduleSoundFor(p, sound, 0)
				}
			}
		} else {
			b.SpeakTo(p, "player-turn", map[string]any{"player": current.Name})
		}
	}
}

// removeFromTurnOrder drops a player ID and keeps the index pointing at
// the same logical seat.
func (b *BaseGame) removeFromTurnOrder(id string) {
	for i, tid := range b.TurnPlayerIDs {
		if tid != id {
			continue
		}
		b.TurnPlayerIDs = append(b.TurnPlayerIDs[:i], b.TurnPlayerIDs[i+1:]...)
		if len(b.TurnPlayerIDs) == 0 {
			b.TurnIndex = 0
			return
		}
		if i < b.TurnIndex || b.TurnIndex >= len(b.TurnPlayerIDs) {
			b.TurnIndex--
			if b.TurnIndex < 0 {
				b.TurnIndex = 0
			}
		}
		return
	}
}
