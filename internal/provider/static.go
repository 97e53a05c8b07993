package provider

import (
	"context"
	"sync"
)

// StaticProvider cycles through canned rooms without touching the network. It
// backs the "static" provider name for offline play and the test suite.
type StaticProvider struct {
	mu sync.Mutex
	n  int
}

func NewStatic() *StaticProvider {
	return &StaticProvider{}
}

var staticRooms = []RoomContent{
	{
		Title: "The Hall of Echoes",
		Description: "Your footsteps repeat back to you from somewhere far above. " +
			"Two portals flicker in the gloom, each humming at a different pitch.",
		ImagePrompt: "a vast dark stone hall with two glowing portals",
		ExitLabels:  map[string]string{"1": "Humming arch", "2": "Silent arch"},
	},
	{
		Title: "The Glasshouse",
		Description: "Vines press against fogged panes on every side. " +
			"The air is warm and smells of crushed mint. Two doorways stand between the planters.",
		ImagePrompt: "an overgrown victorian greenhouse interior, fogged glass",
		ExitLabels:  map[string]string{"1": "Mossy door", "2": "Iron door"},
	},
	{
		Title: "The Tidal Stair",
		Description: "Stone steps descend into black water that rises and falls with a slow breath. " +
			"A portal glows at the waterline and another at the top of the stair.",
		ImagePrompt: "a stone staircase descending into dark tidal water, two portals",
		ExitLabels:  map[string]string{"1": "Waterline portal", "2": "Upper portal"},
	},
	{
		Title: "The Cartographer's Attic",
		Description: "Maps of places that cannot exist cover the sloped walls. " +
			"A draft turns the pages of an atlas no one is reading.",
		ImagePrompt: "a cluttered attic full of impossible maps, candlelight",
		ExitLabels:  map[string]string{"1": "Trapdoor", "2": "Dormer window"},
	},
}

func (p *StaticProvider) GenerateRoom(ctx context.Context, seed string) (*RoomContent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	content := staticRooms[p.n%len(staticRooms)]
	p.n++

	// Return a copy so callers cannot mutate the canned set.
	labels := make(map[string]string, len(content.ExitLabels))
	for k, v := range content.ExitLabels {
		labels[k] = v
	}
	content.ExitLabels = labels

	return &content, nil
}
