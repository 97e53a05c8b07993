package game

import (
	"context"
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-portal/internal/provider"
	"github.com/pixil98/go-portal/internal/world"
)

func newTestDesigner(t *testing.T) (*world.Store, *Designer) {
	t.Helper()

	store := newTestStore(t)
	factory := NewFactory(store, provider.NewStatic(), newTestProcessor(t), &stubRand{})
	return store, NewDesigner(store, factory)
}

func TestExtend(t *testing.T) {
	store, designer := newTestDesigner(t)

	current := putRoom(t, store, &world.Room{
		Title: "Dead End",
		Exits: []world.Exit{{Role: world.RoleExistingOrNew, Label: "Onward"}},
	})

	created, err := designer.Extend(context.Background(), current, DesignInput{
		Title:        "The Annex",
		Description:  "A cramped side chamber.",
		ForwardLabel: "Crawlspace",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The new room links back to where it was designed from.
	testutil.AssertEqual(t, "new exit count", len(created.Exits), 2)
	testutil.AssertEqual(t, "back role", created.Exits[0].Role, world.RoleLink)
	testutil.AssertEqual(t, "back target", created.Exits[0].Target, current.Id)
	testutil.AssertEqual(t, "back label", created.Exits[0].Label, "Back to Dead End")
	testutil.AssertEqual(t, "second role", created.Exits[1].Role, world.RoleExistingOrNew)

	// The current room gained exactly one forward link.
	testutil.AssertEqual(t, "current exit count", len(current.Exits), 2)
	testutil.AssertEqual(t, "forward role", current.Exits[1].Role, world.RoleLink)
	testutil.AssertEqual(t, "forward target", current.Exits[1].Target, created.Id)
	testutil.AssertEqual(t, "forward label", current.Exits[1].Label, "Crawlspace")

	// Both mutations persisted.
	stored := store.Room(current.Id)
	testutil.AssertEqual(t, "persisted exit count", len(stored.Exits), 2)
	if store.Room(created.Id) == nil {
		t.Error("created room not persisted")
	}
}

func TestExtendRequiresSingleExit(t *testing.T) {
	store, designer := newTestDesigner(t)

	current := store.Room(0) // default room has two exits
	_, err := designer.Extend(context.Background(), current, DesignInput{Title: "X"})
	if !errors.Is(err, ErrNotSingleExit) {
		t.Errorf("expected ErrNotSingleExit, got %v", err)
	}
	testutil.AssertEqual(t, "exit count unchanged", len(current.Exits), 2)
}

func TestExtendTwiceRejected(t *testing.T) {
	store, designer := newTestDesigner(t)

	current := putRoom(t, store, &world.Room{
		Title: "Dead End",
		Exits: []world.Exit{{Role: world.RoleExistingOrNew, Label: "Onward"}},
	})

	if _, err := designer.Extend(context.Background(), current, DesignInput{Title: "First"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := designer.Extend(context.Background(), current, DesignInput{Title: "Second"}); !errors.Is(err, ErrNotSingleExit) {
		t.Errorf("expected ErrNotSingleExit on the second extension, got %v", err)
	}
	testutil.AssertEqual(t, "exit count capped", len(current.Exits), 2)
}
