package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pixil98/go-portal/internal"
	"github.com/pixil98/go-portal/internal/display"
	"github.com/pixil98/go-portal/internal/world"
)

// Editor is the management console the play loop can drop into.
type Editor interface {
	Run(ctx context.Context, rw io.ReadWriter) error
}

// Uploader runs the one-shot image upload handshake, returning the stored
// asset path or "" when nothing arrived before the deadline.
type Uploader interface {
	Receive(ctx context.Context, rw io.ReadWriter) (string, error)
}

type SessionConfig struct {
	// CoinCost is what the creation computer charges without credentials.
	CoinCost int
	// AdminPassHash is a bcrypt hash; empty disables the password bypass.
	AdminPassHash string
}

// Session drives one interactive playthrough over a line-based connection.
// It is strictly synchronous: every store write, provider call, and image
// operation completes before the next prompt.
type Session struct {
	store    *world.Store
	resolver *Resolver
	factory  *Factory
	designer *Designer
	rng      Rand
	cfg      SessionConfig

	editor   Editor
	uploader Uploader
	pub      Publisher
}

type SessionOpt func(*Session)

func WithEditor(e Editor) SessionOpt {
	return func(s *Session) {
		s.editor = e
	}
}

func WithUploader(u Uploader) SessionOpt {
	return func(s *Session) {
		s.uploader = u
	}
}

func WithEventPublisher(pub Publisher) SessionOpt {
	return func(s *Session) {
		s.pub = pub
	}
}

func NewSession(store *world.Store, resolver *Resolver, factory *Factory, designer *Designer, rng Rand, cfg SessionConfig, opts ...SessionOpt) *Session {
	s := &Session{
		store:    store,
		resolver: resolver,
		factory:  factory,
		designer: designer,
		rng:      rng,
		cfg:      cfg,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run plays until the player wins, dies, quits, or the connection drops.
func (s *Session) Run(ctx context.Context, rw io.ReadWriter) error {
	current := s.store.StartRoom()
	coins := 0
	entered := -1

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		room := s.store.Room(current)
		if room == nil {
			return fmt.Errorf("current room %d missing from store", current)
		}

		if room.Id != entered {
			publishEvent(ctx, s.pub, SubjectRoomEntered, Event{RoomId: room.Id, Title: room.Title})
			entered = room.Id
		}

		if room.Coins > 0 {
			picked := room.Coins
			coins += picked
			room.Coins = 0
			if err := s.store.Put(room); err != nil {
				return fmt.Errorf("saving coin pickup: %w", err)
			}
			fmt.Fprintf(rw, "You pick up %d coin(s).\n", picked)
			publishEvent(ctx, s.pub, SubjectCoinsCollected, Event{RoomId: room.Id, Coins: picked})
		}

		if err := display.Room(rw, room, coins); err != nil {
			return err
		}

		exits := s.shuffledExits(room)
		fmt.Fprintf(rw, "\nExits:\n")
		for i := 1; i <= len(exits); i++ {
			key := strconv.Itoa(i)
			fmt.Fprintf(rw, "  %s. %s\n", key, exits[key].Label)
		}

		input, err := internal.Prompt(rw, "\nChoose an exit (1/2) or command (design/editor/admin/help/quit): ")
		if err != nil {
			return err
		}

		cmd := strings.ToLower(strings.TrimSpace(input))
		switch {
		case cmd == "":
			continue

		case cmd == "1" || cmd == "2":
			exit, ok := exits[cmd]
			if !ok {
				fmt.Fprintln(rw, "There is no such exit here.")
				continue
			}
			next, done, err := s.takeExit(ctx, rw, room, exit)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			current = next

		case cmd == "?" || strings.HasPrefix("help", cmd):
			s.printHelp(rw)

		case strings.HasPrefix("design", cmd):
			if err := s.runDesign(ctx, rw, room); err != nil {
				return err
			}

		case strings.HasPrefix("editor", cmd):
			if s.editor == nil {
				fmt.Fprintln(rw, "The editor is not available.")
				continue
			}
			if err := s.editor.Run(ctx, rw); err != nil {
				return err
			}

		case strings.HasPrefix("admin", cmd):
			next, newCoins, err := s.runAdmin(ctx, rw, room, coins)
			if err != nil {
				return err
			}
			current, coins = next, newCoins

		case cmd == "exit" || strings.HasPrefix("quit", cmd):
			fmt.Fprintln(rw, "Goodbye.")
			publishEvent(ctx, s.pub, SubjectSessionEnded, Event{RoomId: room.Id, Result: "quit"})
			return nil

		default:
			fmt.Fprintln(rw, "Unknown command. Choose 1 or 2, or type help.")
		}
	}
}

// shuffledExits maps display keys "1"/"2" onto a per-visit shuffle of the
// room's exits. The stored exit order never changes.
func (s *Session) shuffledExits(room *world.Room) map[string]world.Exit {
	order := make([]int, len(room.Exits))
	for i := range order {
		order[i] = i
	}
	s.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	exits := make(map[string]world.Exit, len(order))
	for i, idx := range order {
		exits[strconv.Itoa(i+1)] = room.Exits[idx]
	}
	return exits
}

func (s *Session) takeExit(ctx context.Context, rw io.ReadWriter, room *world.Room, exit world.Exit) (int, bool, error) {
	res, err := s.resolver.Resolve(room, exit)
	if err != nil {
		if errors.Is(err, ErrBrokenLink) {
			fmt.Fprintf(rw, "%q leads nowhere. You stay where you are.\n", exit.Label)
			return room.Id, false, nil
		}
		return 0, false, err
	}

	switch res.Outcome {
	case OutcomeWin:
		fmt.Fprintln(rw, "You found your way home! Congratulations!")
		publishEvent(ctx, s.pub, SubjectSessionEnded, Event{RoomId: room.Id, Result: "win"})
		return 0, true, nil

	case OutcomeDeath:
		fmt.Fprintln(rw, "A sudden chill. You die. Game over.")
		publishEvent(ctx, s.pub, SubjectSessionEnded, Event{RoomId: room.Id, Result: "death"})
		return 0, true, nil

	case OutcomeGenerate:
		fmt.Fprintln(rw, "The portal shimmers as somewhere new takes shape...")
		newRoom, err := s.factory.CreateGenerated(ctx, "")
		if err != nil {
			return 0, false, err
		}
		fmt.Fprintf(rw, "A new room was generated: %s (id=%d)\n", newRoom.Title, newRoom.Id)
		return newRoom.Id, false, nil

	default:
		dest := s.store.Room(res.RoomId)
		fmt.Fprintf(rw, "You are transported to an existing room: %s (id=%d)\n", dest.Title, dest.Id)
		return res.RoomId, false, nil
	}
}

func (s *Session) runDesign(ctx context.Context, rw io.ReadWriter, room *world.Room) error {
	if len(room.Exits) != 1 {
		fmt.Fprintln(rw, "Design is only possible in a room with a single exit.")
		return nil
	}

	in := DesignInput{}
	var err error

	in.Title, err = internal.Prompt(rw, "New room title: ",
		internal.WithDefault(fmt.Sprintf("Room %d", s.store.NextId())))
	if err != nil {
		return err
	}
	in.Title = display.Title(in.Title)
	in.Description, err = internal.Prompt(rw, "Description (short): ",
		internal.WithDefault("A quiet, unfinished place."))
	if err != nil {
		return err
	}
	in.Coins, err = internal.PromptInt(rw, "Coins in the new room (0-5): ", 0, 5,
		internal.WithDefault("0"))
	if err != nil {
		return err
	}
	in.ForwardLabel, err = internal.Prompt(rw, "Label for the exit leading there: ",
		internal.WithDefault("To "+in.Title))
	if err != nil {
		return err
	}

	choice, err := internal.PromptChoice(rw, "Attach an image? (none/path/url/upload): ",
		[]string{"none", "path", "url", "upload"}, internal.WithDefault("none"))
	if err != nil {
		return err
	}
	switch choice {
	case "path", "url":
		in.ImageSource, err = internal.Prompt(rw, "Image source: ")
		if err != nil {
			return err
		}
	case "upload":
		if s.uploader == nil {
			fmt.Fprintln(rw, "Upload is not available; continuing without an image.")
			break
		}
		path, err := s.uploader.Receive(ctx, rw)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			fmt.Fprintf(rw, "Upload failed: %v\n", err)
			break
		}
		in.ImagePath = path
	}

	newRoom, err := s.designer.Extend(ctx, room, in)
	if err != nil {
		if errors.Is(err, ErrNotSingleExit) {
			fmt.Fprintln(rw, "Design is only possible in a room with a single exit.")
			return nil
		}
		return err
	}

	fmt.Fprintf(rw, "Created %s (id=%d) and linked it to this room.\n", newRoom.Title, newRoom.Id)
	return nil
}

func (s *Session) runAdmin(ctx context.Context, rw io.ReadWriter, room *world.Room, coins int) (int, int, error) {
	if room.Title != ComputerTitle {
		fmt.Fprintln(rw, "Admin room creation is only available at the Room Creation Computer.")
		return room.Id, coins, nil
	}

	pw, err := internal.Prompt(rw, "Admin password (leave blank to use coins): ")
	if err != nil {
		return 0, 0, err
	}

	if pw != "" {
		if s.cfg.AdminPassHash == "" ||
			bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPassHash), []byte(pw)) != nil {
			fmt.Fprintln(rw, "Invalid admin password.")
			return room.Id, coins, nil
		}
	} else {
		if coins < s.cfg.CoinCost {
			fmt.Fprintf(rw, "Not enough coins. You need %d coins to create a room.\n", s.cfg.CoinCost)
			return room.Id, coins, nil
		}
		ok, err := internal.PromptYN(rw, fmt.Sprintf("Spend %d coins to create a room? (y/n): ", s.cfg.CoinCost))
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			fmt.Fprintln(rw, "Cancelled.")
			return room.Id, coins, nil
		}
		coins -= s.cfg.CoinCost
	}

	spec, err := PromptManualRoom(rw, s.store.NextId())
	if err != nil {
		return 0, 0, err
	}

	newRoom, err := s.factory.CreateManual(ctx, spec)
	if err != nil {
		return 0, 0, err
	}

	fmt.Fprintf(rw, "Created room %d: %s\n", newRoom.Id, newRoom.Title)
	return newRoom.Id, coins, nil
}

func (s *Session) printHelp(rw io.ReadWriter) {
	fmt.Fprint(rw, `Choose 1 or 2 to take an exit.
  design - extend a single-exit room with a new linked room
  editor - open the room editor
  admin  - create a room (Room Creation Computer only, costs coins)
  help   - this text
  quit   - leave the game
`)
}
