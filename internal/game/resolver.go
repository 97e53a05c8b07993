package game

import (
	"errors"
	"fmt"

	"github.com/pixil98/go-portal/internal/world"
)

const (
	// winChance is the odds a home_or_death exit goes well.
	winChance = 0.75
	// generateChance is the odds an existing_or_new exit spawns a new room.
	generateChance = 0.25
)

// ErrBrokenLink reports a link exit whose target room does not exist. The
// player's position is unchanged when it's returned.
var ErrBrokenLink = errors.New("link exit points at a room that does not exist")

type Outcome int

const (
	OutcomeWin Outcome = iota
	OutcomeDeath
	OutcomeMove
	OutcomeGenerate
)

// Resolution is what taking an exit means. RoomId is only set for OutcomeMove.
type Resolution struct {
	Outcome Outcome
	RoomId  int
}

// Resolver decides outcomes for chosen exits. It never mutates the store.
type Resolver struct {
	store *world.Store
	rng   Rand
}

func NewResolver(store *world.Store, rng Rand) *Resolver {
	return &Resolver{
		store: store,
		rng:   rng,
	}
}

func (r *Resolver) Resolve(current *world.Room, exit world.Exit) (Resolution, error) {
	switch exit.Role {
	case world.RoleHomeOrDeath:
		if r.rng.Float64() < winChance {
			return Resolution{Outcome: OutcomeWin}, nil
		}
		return Resolution{Outcome: OutcomeDeath}, nil

	case world.RoleLink:
		if r.store.Room(exit.Target) == nil {
			return Resolution{}, fmt.Errorf("resolving exit %q: %w", exit.Label, ErrBrokenLink)
		}
		return Resolution{Outcome: OutcomeMove, RoomId: exit.Target}, nil

	case world.RoleExistingOrNew:
		if r.rng.Float64() < generateChance {
			return Resolution{Outcome: OutcomeGenerate}, nil
		}
		return r.teleport(current), nil

	default:
		// Unrecognized roles teleport rather than error; a hand-edited exit
		// shouldn't strand the player.
		return r.teleport(current), nil
	}
}

func (r *Resolver) teleport(current *world.Room) Resolution {
	ids := r.store.RoomIds(current.Id)
	if len(ids) == 0 {
		return Resolution{Outcome: OutcomeGenerate}
	}
	return Resolution{Outcome: OutcomeMove, RoomId: ids[r.rng.Intn(len(ids))]}
}
