package domain

// FlipMap maps wire card ids to their face-up flag. It is the ephemeral
// orientation overlay for a room; absent entries mean face-down. The event
// log stays authoritative for which cards are drawn, the flip map only for
// their orientation.
type FlipMap map[string]bool

// Prune returns a map whose key set is exactly allowed: known values are
// preserved, ids the map has never seen default to face-down. Pruning the
// same allowed set twice yields the same result as pruning it once.
func (f FlipMap) Prune(allowed []string) FlipMap {
	pruned := make(FlipMap, len(allowed))
	for _, id := range allowed {
		pruned[id] = f[id]
	}
	return pruned
}

// CardView is one drawn card as presented to clients.
type CardView struct {
	ID       string `json:"id"`
	FrontURL string `json:"front_url"`
	BackURL  string `json:"back_url"`
}

// RoomState is the projected current visible state of a room: the ordered
// drawn set combined with the flip overlay. The flip map's key set always
// equals the ids in Cards.
type RoomState struct {
	Mode  SessionMode `json:"mode"`
	Cards []CardView  `json:"cards"`
	Flips FlipMap     `json:"flips"`
}

// FlipUpdate is the point delta broadcast after a single card flip.
type FlipUpdate struct {
	CardID  string `json:"card_id"`
	Flipped bool   `json:"flipped"`
}
