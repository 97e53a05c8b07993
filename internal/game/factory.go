package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-portal/internal/images"
	"github.com/pixil98/go-portal/internal/provider"
	"github.com/pixil98/go-portal/internal/world"
)

const (
	// computerInterval controls how often generation yields the creation
	// computer instead of provider content.
	computerInterval = 10
	// coinChance is the odds a generated room holds coins at all.
	coinChance = 0.25

	DefaultImageSize = "512x512"
)

// ComputerTitle is how the play loop recognizes the admin gateway room.
const ComputerTitle = "Room Creation Computer"

// Factory constructs rooms, from provider content or manual input, and
// persists them through the store.
type Factory struct {
	store *world.Store
	text  provider.TextProvider
	image provider.ImageProvider
	proc  *images.Processor
	rng   Rand
	pub   Publisher
	size  string
}

type FactoryOpt func(*Factory)

// WithImageProvider enables image generation for AI-built rooms. Without it
// rooms are created with an empty image reference.
func WithImageProvider(p provider.ImageProvider) FactoryOpt {
	return func(f *Factory) {
		f.image = p
	}
}

func WithImageSize(size string) FactoryOpt {
	return func(f *Factory) {
		f.size = size
	}
}

func WithPublisher(pub Publisher) FactoryOpt {
	return func(f *Factory) {
		f.pub = pub
	}
}

func NewFactory(store *world.Store, text provider.TextProvider, proc *images.Processor, rng Rand, opts ...FactoryOpt) *Factory {
	f := &Factory{
		store: store,
		text:  text,
		proc:  proc,
		rng:   rng,
		size:  DefaultImageSize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateGenerated builds a room from provider content, seeding the request
// with an optional theme hint. Provider and image failures degrade to
// placeholder content and an empty image; only a store failure aborts.
func (f *Factory) CreateGenerated(ctx context.Context, seed string) (*world.Room, error) {
	id := f.store.AllocateId()

	content, err := f.text.GenerateRoom(ctx, seed)
	if err != nil {
		slog.WarnContext(ctx, "room generation failed, using fallback content", "room", id, "error", err)
		content = provider.FallbackContent(id)
	}

	if f.store.BumpGenerated()%computerInterval == 0 {
		room := computerRoom(id)
		if err := f.store.Put(room); err != nil {
			return nil, fmt.Errorf("storing room %d: %w", id, err)
		}
		publishEvent(ctx, f.pub, SubjectRoomCreated, Event{RoomId: id, Title: room.Title})
		return room, nil
	}

	coins := 0
	if f.rng.Float64() < coinChance {
		coins = 1 + f.rng.Intn(2)
	}

	room := &world.Room{
		Id:          id,
		Title:       content.Title,
		Description: content.Description,
		Coins:       coins,
		Exits: []world.Exit{
			{Role: world.RoleHomeOrDeath, Label: content.Label("1", "Left")},
			{Role: world.RoleExistingOrNew, Label: content.Label("2", "Right")},
		},
	}

	if f.image != nil {
		prompt := content.ImagePrompt
		if prompt == "" {
			prompt = content.Description
		}
		room.Image = f.renderImage(ctx, id, prompt)
	}

	if err := f.store.Put(room); err != nil {
		return nil, fmt.Errorf("storing room %d: %w", id, err)
	}

	publishEvent(ctx, f.pub, SubjectRoomCreated, Event{RoomId: id, Title: room.Title, Coins: coins})
	return room, nil
}

func (f *Factory) renderImage(ctx context.Context, id int, prompt string) string {
	data, err := f.image.Generate(ctx, prompt, f.size)
	if err != nil {
		slog.WarnContext(ctx, "image generation failed", "room", id, "error", err)
		return ""
	}

	path, err := f.proc.ProcessBytes(data)
	if err != nil {
		slog.WarnContext(ctx, "image processing failed", "room", id, "error", err)
		return ""
	}

	return path
}

// ManualRoom is caller-specified content for the manual creation path.
type ManualRoom struct {
	Title       string
	Description string
	Coins       int
	Exits       []world.Exit

	// ImagePath is an already-stored asset; ImageSource is a local file path
	// or URL still to be processed. ImagePath wins when both are set.
	ImagePath   string
	ImageSource string
}

// CreateManual builds a room from fully specified content. Image processing
// failure is reported but never aborts creation.
func (f *Factory) CreateManual(ctx context.Context, spec ManualRoom) (*world.Room, error) {
	id := f.store.AllocateId()

	title := spec.Title
	if title == "" {
		title = fmt.Sprintf("Room %d", id)
	}

	exits := spec.Exits
	if len(exits) == 0 {
		exits = []world.Exit{
			{Role: world.RoleHomeOrDeath, Label: "Left"},
			{Role: world.RoleExistingOrNew, Label: "Right"},
		}
	}

	room := &world.Room{
		Id:          id,
		Title:       title,
		Description: spec.Description,
		Coins:       spec.Coins,
		Exits:       exits,
	}

	switch {
	case spec.ImagePath != "":
		room.Image = spec.ImagePath
	case spec.ImageSource != "":
		path, err := f.proc.ProcessSource(ctx, spec.ImageSource)
		if err != nil {
			slog.WarnContext(ctx, "image source processing failed", "room", id, "source", spec.ImageSource, "error", err)
		} else {
			room.Image = path
		}
	}

	if err := f.store.Put(room); err != nil {
		return nil, fmt.Errorf("storing room %d: %w", id, err)
	}

	publishEvent(ctx, f.pub, SubjectRoomCreated, Event{RoomId: id, Title: room.Title, Coins: room.Coins})
	return room, nil
}

func computerRoom(id int) *world.Room {
	return &world.Room{
		Id:    id,
		Title: ComputerTitle,
		Description: "A humming floor of glass and chrome displays a console of infinite " +
			"options. Insert coins to create a custom room, or provide admin credentials to bypass.",
		Exits: []world.Exit{
			{Role: world.RoleHomeOrDeath, Label: "Left Console Gate"},
			{Role: world.RoleExistingOrNew, Label: "Right Console Gate"},
		},
	}
}
