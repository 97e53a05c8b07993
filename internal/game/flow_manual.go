package game

import (
	"fmt"
	"io"

	"github.com/pixil98/go-portal/internal"
	"github.com/pixil98/go-portal/internal/display"
	"github.com/pixil98/go-portal/internal/world"
)

// PromptManualRoom collects the manual creation path's inputs. Shared by the
// creation computer's admin flow and the editor.
func PromptManualRoom(rw io.ReadWriter, nextId int) (ManualRoom, error) {
	spec := ManualRoom{}
	var err error

	spec.Title, err = internal.Prompt(rw, "Room title: ",
		internal.WithDefault(fmt.Sprintf("Admin Room %d", nextId)))
	if err != nil {
		return spec, err
	}
	spec.Title = display.Title(spec.Title)
	spec.Description, err = internal.Prompt(rw, "Description (short): ",
		internal.WithDefault("A room created by hand."))
	if err != nil {
		return spec, err
	}

	llabel, err := internal.Prompt(rw, "Exit 1 label: ", internal.WithDefault("Left Door"))
	if err != nil {
		return spec, err
	}
	rlabel, err := internal.Prompt(rw, "Exit 2 label: ", internal.WithDefault("Right Door"))
	if err != nil {
		return spec, err
	}
	spec.Exits = []world.Exit{
		{Role: world.RoleHomeOrDeath, Label: llabel},
		{Role: world.RoleExistingOrNew, Label: rlabel},
	}

	spec.Coins, err = internal.PromptInt(rw, "Coins in this room (0-5): ", 0, 5,
		internal.WithDefault("0"))
	if err != nil {
		return spec, err
	}

	spec.ImageSource, err = internal.Prompt(rw, "Image path or URL (blank for none): ")
	if err != nil {
		return spec, err
	}

	return spec, nil
}
