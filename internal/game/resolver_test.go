package game

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-portal/internal/world"
)

// stubRand hands out scripted values. Exhausted scripts return zero, and Intn
// results are clamped into range so scripts stay valid as maps grow.
type stubRand struct {
	floats []float64
	ints   []int
	// reverse makes Shuffle flip the slice instead of being the identity.
	reverse bool
}

func (r *stubRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *stubRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

func (r *stubRand) Shuffle(n int, swap func(i, j int)) {
	if !r.reverse {
		return
	}
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

func newTestStore(t *testing.T) *world.Store {
	t.Helper()

	store, err := world.Open(filepath.Join(t.TempDir(), "rooms.json"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	return store
}

func putRoom(t *testing.T, store *world.Store, r *world.Room) *world.Room {
	t.Helper()

	r.Id = store.AllocateId()
	if err := store.Put(r); err != nil {
		t.Fatalf("putting room: %v", err)
	}
	return r
}

func TestResolveHomeOrDeath(t *testing.T) {
	tests := map[string]struct {
		roll float64
		exp  Outcome
	}{
		"win":           {roll: 0.5, exp: OutcomeWin},
		"death":         {roll: 0.9, exp: OutcomeDeath},
		"boundary roll": {roll: 0.75, exp: OutcomeDeath},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t)
			r := NewResolver(store, &stubRand{floats: []float64{tt.roll}})

			res, err := r.Resolve(store.Room(0), world.Exit{Role: world.RoleHomeOrDeath, Label: "Left"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "outcome", res.Outcome, tt.exp)
		})
	}
}

func TestResolveLink(t *testing.T) {
	store := newTestStore(t)
	dest := putRoom(t, store, &world.Room{
		Title: "Annex",
		Exits: []world.Exit{{Role: world.RoleExistingOrNew, Label: "On"}},
	})

	r := NewResolver(store, &stubRand{})
	res, err := r.Resolve(store.Room(0), world.Exit{Role: world.RoleLink, Label: "Door", Target: dest.Id})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "outcome", res.Outcome, OutcomeMove)
	testutil.AssertEqual(t, "destination", res.RoomId, dest.Id)
}

func TestResolveBrokenLink(t *testing.T) {
	store := newTestStore(t)
	r := NewResolver(store, &stubRand{})

	_, err := r.Resolve(store.Room(0), world.Exit{Role: world.RoleLink, Label: "Door", Target: 99})
	if !errors.Is(err, ErrBrokenLink) {
		t.Errorf("expected ErrBrokenLink, got %v", err)
	}
}

func TestResolveExistingOrNew(t *testing.T) {
	tests := map[string]struct {
		extraRooms int
		rng        *stubRand
		exp        Outcome
	}{
		"generation roll": {
			extraRooms: 2,
			rng:        &stubRand{floats: []float64{0.1}},
			exp:        OutcomeGenerate,
		},
		"teleport roll": {
			extraRooms: 2,
			rng:        &stubRand{floats: []float64{0.9}, ints: []int{1}},
			exp:        OutcomeMove,
		},
		"no other rooms falls back to generation": {
			extraRooms: 0,
			rng:        &stubRand{floats: []float64{0.9}},
			exp:        OutcomeGenerate,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t)
			for i := 0; i < tt.extraRooms; i++ {
				putRoom(t, store, &world.Room{
					Title: "Filler",
					Exits: []world.Exit{{Role: world.RoleExistingOrNew, Label: "On"}},
				})
			}

			r := NewResolver(store, tt.rng)
			res, err := r.Resolve(store.Room(0), world.Exit{Role: world.RoleExistingOrNew, Label: "Right"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "outcome", res.Outcome, tt.exp)
			if res.Outcome == OutcomeMove && res.RoomId == 0 {
				t.Error("teleport picked the current room")
			}
		})
	}
}

func TestResolveUnknownRoleTeleports(t *testing.T) {
	store := newTestStore(t)
	dest := putRoom(t, store, &world.Room{
		Title: "Annex",
		Exits: []world.Exit{{Role: world.RoleExistingOrNew, Label: "On"}},
	})

	// No float roll may be consumed: unknown roles skip the generation odds.
	r := NewResolver(store, &stubRand{ints: []int{0}})
	res, err := r.Resolve(store.Room(0), world.Exit{Role: "portal_of_mystery", Label: "???"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "outcome", res.Outcome, OutcomeMove)
	testutil.AssertEqual(t, "destination", res.RoomId, dest.Id)
}

func TestResolveUnknownRoleNoRoomsGenerates(t *testing.T) {
	store := newTestStore(t)
	r := NewResolver(store, &stubRand{})

	res, err := r.Resolve(store.Room(0), world.Exit{Role: "portal_of_mystery", Label: "???"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "outcome", res.Outcome, OutcomeGenerate)
}
