package users

import (
	"encoding/json"
)

// Dice keeping styles.
const (
	DiceKeepingPlayPalace = "playpalace"
	DiceKeepingQuentinC   = "quentin_c"
)

// Preferences are per-user settings persisted as a JSON blob on the user
// record. Unknown fields in stored blobs are ignored so old saves keep
// loading.
type Preferences struct {
	PlayTurnSound    bool   `json:"play_turn_sound"`
	ClearKeptOnRoll  bool   `json:"clear_kept_on_roll"`
	DiceKeepingStyle string `json:"dice_keeping_style"`
}

// DefaultPreferences returns the settings for a fresh user.
func DefaultPreferences() Preferences {
	return Preferences{
		PlayTurnSound:    true,
		ClearKeptOnRoll:  false,
		DiceKeepingStyle: DiceKeepingPlayPalace,
	}
}

// ParsePreferences decodes a stored blob, falling back to defaults on
// corrupt or empty input.
func ParsePreferences(blob string) Preferences {
	prefs := DefaultPreferences()
	if blob == "" {
		return prefs
	}
	if err := json.Unmarshal([]byte(blob), &prefs); err != nil {
		return DefaultPreferences()
	}
	if prefs.DiceKeepingStyle == "" {
		prefs.DiceKeepingStyle = DiceKeepingPlayPalace
	}
	return prefs
}

// Encode serializes preferences for storage.
func (p Preferences) Encode() string {
	data, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(data)
}
