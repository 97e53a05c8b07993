package world

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pixil98/go-errors"
)

// Role determines how an exit resolves when the player takes it.
type Role string

const (
	// RoleHomeOrDeath ends the session, one way or the other.
	RoleHomeOrDeath Role = "home_or_death"
	// RoleExistingOrNew teleports to a random room or generates a new one.
	RoleExistingOrNew Role = "existing_or_new"
	// RoleLink moves to a fixed target room.
	RoleLink Role = "link"
)

// Exit is a directed edge out of a room. Target is only meaningful for
// RoleLink, and is not checked against the store until resolution time, so a
// dangling link is a representable state.
type Exit struct {
	Role   Role   `json:"role"`
	Label  string `json:"label"`
	Target int    `json:"target,omitempty"`
}

// Room is a node in the navigable graph. Exits keep their stored order; any
// per-visit shuffling is purely presentational.
type Room struct {
	Id          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Coins       int    `json:"coins"`
	Exits       []Exit `json:"exits"`
}

func (r *Room) Validate() error {
	el := errors.NewErrorList()

	if r.Id < 0 {
		el.Add(fmt.Errorf("id must not be negative"))
	}
	if r.Title == "" {
		el.Add(fmt.Errorf("title is required"))
	}
	if r.Coins < 0 {
		el.Add(fmt.Errorf("coins must not be negative"))
	}
	if len(r.Exits) < 1 || len(r.Exits) > 2 {
		el.Add(fmt.Errorf("room must have 1 or 2 exits, has %d", len(r.Exits)))
	}
	for i, e := range r.Exits {
		if e.Label == "" {
			el.Add(fmt.Errorf("exit %d: label is required", i))
		}
		if e.Target != 0 && e.Role != RoleLink {
			el.Add(fmt.Errorf("exit %d: target is only valid on link exits", i))
		}
	}

	return el.Err()
}

// World is the full room graph plus its bookkeeping counters. Rooms are keyed
// by integer id in memory; the persisted document keys them by decimal string.
type World struct {
	NextId         int
	TotalGenerated int
	StartRoom      int
	Rooms          map[int]*Room
}

// worldDoc is the persisted shape of a World.
type worldDoc struct {
	NextId         int              `json:"next_id"`
	TotalGenerated int              `json:"total_generated"`
	StartRoom      int              `json:"start_room"`
	Rooms          map[string]*Room `json:"rooms"`
}

func (w *World) MarshalJSON() ([]byte, error) {
	doc := worldDoc{
		NextId:         w.NextId,
		TotalGenerated: w.TotalGenerated,
		StartRoom:      w.StartRoom,
		Rooms:          make(map[string]*Room, len(w.Rooms)),
	}
	for id, r := range w.Rooms {
		doc.Rooms[strconv.Itoa(id)] = r
	}
	return json.Marshal(doc)
}

func (w *World) UnmarshalJSON(data []byte) error {
	var doc worldDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	w.NextId = doc.NextId
	w.TotalGenerated = doc.TotalGenerated
	w.StartRoom = doc.StartRoom
	w.Rooms = make(map[int]*Room, len(doc.Rooms))
	for key, r := range doc.Rooms {
		id, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("room key %q is not an integer: %w", key, err)
		}
		w.Rooms[id] = r
	}

	return nil
}

func (w *World) Validate() error {
	el := errors.NewErrorList()

	if w.NextId < 0 {
		el.Add(fmt.Errorf("next_id must not be negative"))
	}

	for id, r := range w.Rooms {
		if r == nil {
			el.Add(fmt.Errorf("room %d: missing body", id))
			continue
		}
		if r.Id != id {
			el.Add(fmt.Errorf("room %d: id field is %d", id, r.Id))
		}
		if r.Id >= w.NextId {
			el.Add(fmt.Errorf("room %d: id not below next_id %d", id, w.NextId))
		}
		if err := r.Validate(); err != nil {
			el.Add(fmt.Errorf("room %d: %w", id, err))
		}
	}

	if _, ok := w.Rooms[w.StartRoom]; !ok {
		el.Add(fmt.Errorf("start_room %d does not exist", w.StartRoom))
	}

	return el.Err()
}

// DefaultWorld is the single-room world a fresh store starts from.
func DefaultWorld() *World {
	return &World{
		NextId:    1,
		StartRoom: 0,
		Rooms: map[int]*Room{
			0: {
				Id:    0,
				Title: "The First Chamber",
				Description: "You awaken in a dim chamber with two shimmering portals. " +
					"The doorway you came through has vanished. Each portal bears a sign " +
					"written in an unfamiliar script. The air tastes faintly of iron and rain.",
				Coins: 1,
				Exits: []Exit{
					{Role: RoleHomeOrDeath, Label: "Left portal"},
					{Role: RoleExistingOrNew, Label: "Right portal"},
				},
			},
		},
	}
}
