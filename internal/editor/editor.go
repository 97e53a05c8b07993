package editor

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pixil98/go-portal/internal"
	"github.com/pixil98/go-portal/internal/display"
	"github.com/pixil98/go-portal/internal/game"
	"github.com/pixil98/go-portal/internal/world"
)

// Editor is a management console over the room store: create, inspect,
// and rewire rooms directly, bypassing the play loop's rules.
type Editor struct {
	store   *world.Store
	factory *game.Factory
}

func NewEditor(store *world.Store, factory *game.Factory) *Editor {
	return &Editor{
		store:   store,
		factory: factory,
	}
}

func (e *Editor) Run(ctx context.Context, rw io.ReadWriter) error {
	fmt.Fprintln(rw, "Room editor. Commands: create, list, view, link, map, quit.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		input, err := internal.Prompt(rw, "editor> ")
		if err != nil {
			return err
		}

		cmd := strings.ToLower(strings.TrimSpace(input))
		switch {
		case cmd == "":
			continue

		case strings.HasPrefix("create", cmd):
			if err := e.runCreate(ctx, rw); err != nil {
				return err
			}

		case strings.HasPrefix("list", cmd):
			e.runList(rw)

		case strings.HasPrefix("view", cmd):
			if err := e.runView(rw); err != nil {
				return err
			}

		case strings.HasPrefix("link", cmd):
			if err := e.runLink(rw); err != nil {
				return err
			}

		case strings.HasPrefix("map", cmd):
			e.runMap(rw)

		case cmd == "exit" || strings.HasPrefix("quit", cmd):
			fmt.Fprintln(rw, "Leaving the editor.")
			return nil

		default:
			fmt.Fprintln(rw, "Unknown command. Commands: create, list, view, link, map, quit.")
		}
	}
}

func (e *Editor) runCreate(ctx context.Context, rw io.ReadWriter) error {
	spec, err := game.PromptManualRoom(rw, e.store.NextId())
	if err != nil {
		return err
	}

	room, err := e.factory.CreateManual(ctx, spec)
	if err != nil {
		return err
	}

	fmt.Fprintf(rw, "Created room %d: %s\n", room.Id, room.Title)
	return nil
}

func (e *Editor) runList(rw io.ReadWriter) {
	ids := e.store.RoomIds(-1)
	fmt.Fprintf(rw, "%d room(s):\n", len(ids))
	for _, id := range ids {
		room := e.store.Room(id)
		fmt.Fprintf(rw, "  %3d  %s (%d exit(s), %d coin(s))\n", id, room.Title, len(room.Exits), room.Coins)
	}
}

func (e *Editor) runView(rw io.ReadWriter) error {
	id, err := newRoomSelector(e.store).Prompt(rw, "Which room?")
	if err != nil {
		return err
	}

	return display.RoomDetail(rw, e.store.Room(id))
}

// runLink overwrites one exit of a room in place. It is the only way to
// retarget an exit after creation, and it does not validate link targets.
func (e *Editor) runLink(rw io.ReadWriter) error {
	id, err := newRoomSelector(e.store).Prompt(rw, "Which room?")
	if err != nil {
		return err
	}
	room := e.store.Room(id)

	if err := display.RoomDetail(rw, room); err != nil {
		return err
	}

	slot, err := internal.PromptInt(rw, fmt.Sprintf("Which exit (1-%d)? ", len(room.Exits)), 1, len(room.Exits))
	if err != nil {
		return err
	}
	exit := room.Exits[slot-1]

	role, err := internal.PromptChoice(rw, "Role (home_or_death/existing_or_new/link): ",
		[]string{string(world.RoleHomeOrDeath), string(world.RoleExistingOrNew), string(world.RoleLink)},
		internal.WithDefault(string(exit.Role)))
	if err != nil {
		return err
	}
	exit.Role = world.Role(role)

	label, err := internal.Prompt(rw, "Label: ", internal.WithDefault(exit.Label))
	if err != nil {
		return err
	}
	exit.Label = label

	if exit.Role == world.RoleLink {
		target, err := internal.Prompt(rw, "Target room id: ",
			internal.WithDefault(strconv.Itoa(exit.Target)),
			internal.WithValidator(func(str string) (bool, string) {
				if _, err := strconv.Atoi(str); err != nil {
					return false, "Enter a room id.\n"
				}
				return true, ""
			}))
		if err != nil {
			return err
		}
		exit.Target, _ = strconv.Atoi(target)
	} else {
		exit.Target = 0
	}

	room.Exits[slot-1] = exit
	if err := e.store.Put(room); err != nil {
		return err
	}

	fmt.Fprintf(rw, "Exit %d of room %d updated.\n", slot, id)
	return nil
}

// runMap prints the world's link structure as mermaid flowchart source,
// ready to paste into any mermaid renderer.
func (e *Editor) runMap(rw io.ReadWriter) {
	fmt.Fprintln(rw, "flowchart TD")
	for _, id := range e.store.RoomIds(-1) {
		room := e.store.Room(id)
		fmt.Fprintf(rw, "    r%d[\"%d: %s\"]\n", id, id, room.Title)
	}
	for _, id := range e.store.RoomIds(-1) {
		for _, exit := range e.store.Room(id).Exits {
			if exit.Role == world.RoleLink {
				fmt.Fprintf(rw, "    r%d -->|%s| r%d\n", id, exit.Label, exit.Target)
			}
		}
	}
}
