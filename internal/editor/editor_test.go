package editor

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-portal/internal/game"
	"github.com/pixil98/go-portal/internal/images"
	"github.com/pixil98/go-portal/internal/provider"
	"github.com/pixil98/go-portal/internal/world"
)

type fixedRand struct{}

func (fixedRand) Float64() float64            { return 0.9 }
func (fixedRand) Intn(n int) int              { return 0 }
func (fixedRand) Shuffle(int, func(int, int)) {}

type scriptedConn struct {
	lines []string
	out   bytes.Buffer
}

func (c *scriptedConn) Read(p []byte) (int, error) {
	if len(c.lines) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.lines[0]+"\n")
	c.lines = c.lines[1:]
	return n, nil
}

func (c *scriptedConn) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

func newTestEditor(t *testing.T) (*Editor, *world.Store) {
	t.Helper()

	store, err := world.Open(filepath.Join(t.TempDir(), "rooms.json"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}

	proc, err := images.NewProcessor(t.TempDir(), "32x32")
	if err != nil {
		t.Fatalf("creating processor: %v", err)
	}

	factory := game.NewFactory(store, provider.NewStatic(), proc, fixedRand{})
	return NewEditor(store, factory), store
}

func TestEditorList(t *testing.T) {
	e, _ := newTestEditor(t)

	conn := &scriptedConn{lines: []string{"list", "quit"}}
	if err := e.Run(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := conn.out.String()
	if !strings.Contains(out, "1 room(s):") {
		t.Errorf("missing room count:\n%s", out)
	}
	if !strings.Contains(out, "The First Chamber") {
		t.Errorf("missing room title:\n%s", out)
	}
}

func TestEditorCreate(t *testing.T) {
	e, store := newTestEditor(t)

	conn := &scriptedConn{lines: []string{
		"create",
		"Side Chamber", // title
		"",             // description
		"",             // exit 1 label
		"",             // exit 2 label
		"",             // coins
		"",             // image source
		"quit",
	}}
	if err := e.Run(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	room := store.Room(1)
	if room == nil {
		t.Fatal("created room not stored")
	}
	testutil.AssertEqual(t, "title", room.Title, "Side Chamber")
	testutil.AssertEqual(t, "exits", len(room.Exits), 2)
	if !strings.Contains(conn.out.String(), "Created room 1") {
		t.Errorf("missing confirmation:\n%s", conn.out.String())
	}
}

func TestEditorLinkOverwritesExit(t *testing.T) {
	e, store := newTestEditor(t)

	conn := &scriptedConn{lines: []string{
		"link",
		"1",           // select room 0
		"1",           // exit slot
		"link",        // role
		"Hidden door", // label
		"5",           // target
		"quit",
	}}
	if err := e.Run(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exit := store.Room(0).Exits[0]
	testutil.AssertEqual(t, "role", exit.Role, world.RoleLink)
	testutil.AssertEqual(t, "label", exit.Label, "Hidden door")
	testutil.AssertEqual(t, "target", exit.Target, 5)

	// The second exit is untouched.
	testutil.AssertEqual(t, "other exit", store.Room(0).Exits[1].Label, "Right portal")
}

func TestEditorLinkKeepsDefaults(t *testing.T) {
	e, store := newTestEditor(t)
	before := store.Room(0).Exits[0]

	conn := &scriptedConn{lines: []string{
		"link",
		"1", // select room 0
		"1", // exit slot
		"",  // keep role
		"",  // keep label
		"quit",
	}}
	if err := e.Run(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after := store.Room(0).Exits[0]
	testutil.AssertEqual(t, "role", after.Role, before.Role)
	testutil.AssertEqual(t, "label", after.Label, before.Label)
}

func TestEditorMap(t *testing.T) {
	e, store := newTestEditor(t)

	room := store.Room(0)
	room.Exits[0] = world.Exit{Role: world.RoleLink, Label: "Down", Target: 3}
	if err := store.Put(room); err != nil {
		t.Fatalf("seeding link: %v", err)
	}

	conn := &scriptedConn{lines: []string{"map", "quit"}}
	if err := e.Run(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := conn.out.String()
	if !strings.Contains(out, "flowchart TD") {
		t.Errorf("missing flowchart header:\n%s", out)
	}
	if !strings.Contains(out, `r0["0: The First Chamber"]`) {
		t.Errorf("missing node:\n%s", out)
	}
	if !strings.Contains(out, "r0 -->|Down| r3") {
		t.Errorf("missing edge:\n%s", out)
	}
}

func TestEditorUnknownCommand(t *testing.T) {
	e, _ := newTestEditor(t)

	conn := &scriptedConn{lines: []string{"frobnicate", "quit"}}
	if err := e.Run(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(conn.out.String(), "Unknown command") {
		t.Errorf("missing error message:\n%s", conn.out.String())
	}
}

func TestRoomSelectorBounds(t *testing.T) {
	_, store := newTestEditor(t)
	s := newRoomSelector(store)

	tests := map[string]struct {
		pick int
		exp  int
	}{
		"first":    {pick: 1, exp: 0},
		"zero":     {pick: 0, exp: -1},
		"past end": {pick: 2, exp: -1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "room id", s.roomId(tt.pick), tt.exp)
		})
	}
}
