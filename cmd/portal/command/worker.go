package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-portal/internal/editor"
	"github.com/pixil98/go-portal/internal/game"
	"github.com/pixil98/go-portal/internal/listener"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	store, err := cfg.Storage.BuildStore()
	if err != nil {
		return nil, fmt.Errorf("opening world store: %w", err)
	}

	proc, err := cfg.Storage.BuildProcessor(cfg.Providers.Image.ImageSize())
	if err != nil {
		return nil, fmt.Errorf("creating image processor: %w", err)
	}

	text, err := cfg.Providers.Text.BuildTextProvider()
	if err != nil {
		return nil, fmt.Errorf("creating text provider: %w", err)
	}

	image, err := cfg.Providers.Image.BuildImageProvider()
	if err != nil {
		return nil, fmt.Errorf("creating image provider: %w", err)
	}

	bus, err := cfg.Nats.buildEventBus()
	if err != nil {
		return nil, fmt.Errorf("creating event bus: %w", err)
	}

	rng := game.NewLockedRand(time.Now().UnixNano())

	factoryOpts := []game.FactoryOpt{
		game.WithImageSize(cfg.Providers.Image.ImageSize()),
		game.WithPublisher(bus),
	}
	if image != nil {
		factoryOpts = append(factoryOpts, game.WithImageProvider(image))
	}
	factory := game.NewFactory(store, text, proc, rng, factoryOpts...)

	resolver := game.NewResolver(store, rng)
	designer := game.NewDesigner(store, factory)

	exchange, err := cfg.Upload.BuildExchange(proc)
	if err != nil {
		return nil, fmt.Errorf("creating upload exchange: %w", err)
	}

	session := game.NewSession(store, resolver, factory, designer, rng, cfg.Game.SessionConfig(),
		game.WithEditor(editor.NewEditor(store, factory)),
		game.WithUploader(exchange),
		game.WithEventPublisher(bus),
	)

	cm := listener.NewSessionManager(session)

	// Default to a stdio listener when none are configured
	listenerCfgs := cfg.Listeners
	if len(listenerCfgs) == 0 {
		listenerCfgs = []ListenerConfig{{Protocol: ListenerTypeStdio}}
	}

	listeners := make(service.WorkerList, len(listenerCfgs))
	for i, l := range listenerCfgs {
		lst, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = lst
	}

	return service.WorkerList{
		"bus":       bus,
		"listeners": &listeners,
	}, nil
}
