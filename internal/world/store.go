package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
)

// Store owns the world document. Every mutator rewrites the whole document;
// there is no incremental update. The store assumes a single process and a
// single logical writer, the lock only guards in-process callers.
type Store struct {
	path  string
	world *World

	mu sync.RWMutex
}

// Open loads the world document at path, creating and persisting the default
// single-room world if no document exists yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	err := s.load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.world = DefaultWorld()
		return s.save()
	}
	if err != nil {
		return fmt.Errorf("reading world document: %w", err)
	}

	w := &World{}
	if err := json.Unmarshal(data, w); err != nil {
		return fmt.Errorf("unmarshalling world document: %w", err)
	}
	if err := w.Validate(); err != nil {
		return fmt.Errorf("validating world document: %w", err)
	}

	s.world = w
	return nil
}

// Room returns the room with the given id, or nil when it does not exist.
func (s *Store) Room(id int) *Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.world.Rooms[id]
}

// Rooms returns a copy of the room map. The rooms themselves are shared.
func (s *Store) Rooms() map[int]*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make(map[int]*Room, len(s.world.Rooms))
	for id, r := range s.world.Rooms {
		rooms[id] = r
	}
	return rooms
}

// RoomIds returns all room ids except exclude, sorted ascending so random
// picks driven by an injected source stay deterministic.
func (s *Store) RoomIds(exclude int) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.world.Rooms))
	for id := range s.world.Rooms {
		if id != exclude {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) StartRoom() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.world.StartRoom
}

func (s *Store) NextId() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.world.NextId
}

func (s *Store) TotalGenerated() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.world.TotalGenerated
}

// AllocateId hands out the next room id. Ids are strictly increasing and never
// reused; an allocation abandoned by a failed creation stays burned.
func (s *Store) AllocateId() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.world.NextId
	s.world.NextId++
	return id
}

// BumpGenerated increments the generation counter and returns the new total.
// The counter is persisted with the next Put.
func (s *Store) BumpGenerated() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.world.TotalGenerated++
	return s.world.TotalGenerated
}

// Put stores a room under its id and rewrites the document.
func (s *Store) Put(r *Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.world.Rooms[r.Id] = r
	return s.save()
}

// Save rewrites the document from the current in-memory world.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save()
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.world, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling world document: %w", err)
	}

	return atomicWrite(s.path, data, 0644)
}

// atomicWrite writes data to a temp file then renames it to the target path,
// so a failed write leaves the prior document intact.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			slog.Warn("failed to remove temp file after rename failure", "path", tmp, "error", removeErr)
		}
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
