package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/pixil98/go-portal/internal/world"
)

// ErrNotSingleExit guards the design precondition: only a room with exactly
// one exit can be extended.
var ErrNotSingleExit = errors.New("design requires a room with exactly one exit")

// DesignInput is what the player supplies when extending a single-exit room.
type DesignInput struct {
	Title       string
	Description string
	Coins       int

	// BackLabel names the new room's link back here; ForwardLabel names the
	// exit appended to the current room; SecondLabel names the new room's
	// generic second exit. All three default when empty.
	BackLabel    string
	ForwardLabel string
	SecondLabel  string

	ImagePath   string
	ImageSource string
}

// Designer turns graph construction into a player-directed operation: it
// builds a new room back-linked to the current one, then appends a link exit
// onto the current room, raising its exit count from 1 to 2.
type Designer struct {
	store   *world.Store
	factory *Factory
}

func NewDesigner(store *world.Store, factory *Factory) *Designer {
	return &Designer{
		store:   store,
		factory: factory,
	}
}

func (d *Designer) Extend(ctx context.Context, current *world.Room, in DesignInput) (*world.Room, error) {
	if len(current.Exits) != 1 {
		return nil, ErrNotSingleExit
	}

	back := in.BackLabel
	if back == "" {
		back = fmt.Sprintf("Back to %s", current.Title)
	}
	second := in.SecondLabel
	if second == "" {
		second = "Onward"
	}

	room, err := d.factory.CreateManual(ctx, ManualRoom{
		Title:       in.Title,
		Description: in.Description,
		Coins:       in.Coins,
		ImagePath:   in.ImagePath,
		ImageSource: in.ImageSource,
		Exits: []world.Exit{
			{Role: world.RoleLink, Label: back, Target: current.Id},
			{Role: world.RoleExistingOrNew, Label: second},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating designed room: %w", err)
	}

	forward := in.ForwardLabel
	if forward == "" {
		forward = fmt.Sprintf("To %s", room.Title)
	}

	current.Exits = append(current.Exits, world.Exit{
		Role:   world.RoleLink,
		Label:  forward,
		Target: room.Id,
	})
	if err := d.store.Put(current); err != nil {
		return nil, fmt.Errorf("linking room %d: %w", current.Id, err)
	}

	return room, nil
}
