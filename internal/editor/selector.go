package editor

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pixil98/go-portal/internal"
	"github.com/pixil98/go-portal/internal/world"
)

const (
	selectorRowLength = 80
	selectorRowCount  = 5
)

type roomOption struct {
	id    int
	title string
}

// roomSelector renders the store's rooms as a numbered multi-column menu
// and prompts for one of them.
type roomSelector struct {
	options []roomOption
	output  []string
}

func newRoomSelector(store *world.Store) *roomSelector {
	s := &roomSelector{}

	for _, id := range store.RoomIds(-1) {
		s.options = append(s.options, roomOption{id: id, title: store.Room(id).Title})
	}
	s.build()

	return s
}

func (s *roomSelector) build() {
	// Calculate column width
	colWidth := 1
	for _, v := range s.options {
		l := len(v.selector()) + 7 // Plus 7 for number and spacing (nn. <val>  )
		if l > colWidth {
			colWidth = l
		}
	}

	// Fill columns first, left to right, growing the row count past the
	// default when the options don't fit.
	numCols := selectorRowLength / colWidth
	if numCols < 1 {
		numCols = 1
	}
	numRows := len(s.options) / numCols
	if numRows < selectorRowCount {
		numRows = selectorRowCount
	}

	count := 0
	rows := make([]string, numRows)
	for _, v := range s.options {
		rows[count%numRows] = rows[count%numRows] + fmt.Sprintf("%2d. %-*s  ", count+1, colWidth-5, v.selector())
		count++
	}

	s.output = rows
}

func (o roomOption) selector() string {
	return fmt.Sprintf("%s (%d)", o.title, o.id)
}

func (s *roomSelector) Prompt(rw io.ReadWriter, prompt string) (int, error) {
	_, err := fmt.Fprintf(rw, "%s\n", prompt)
	if err != nil {
		return 0, err
	}

	for _, str := range s.output {
		if len(str) > 0 {
			_, err = fmt.Fprintf(rw, "%s\n", str)
			if err != nil {
				return 0, err
			}
		}
	}

	selection, err := internal.Prompt(rw, "Make your selection: ", internal.WithValidator(
		func(str string) (bool, string) {
			i, err := strconv.Atoi(str)
			if err != nil {
				return false, "Invalid selection!\n"
			}

			if s.roomId(i) < 0 {
				return false, "Invalid selection!\n"
			}

			return true, ""
		},
	))
	if err != nil {
		return 0, err
	}

	i, err := strconv.Atoi(selection)
	if err != nil {
		return 0, err
	}

	return s.roomId(i), nil
}

func (s *roomSelector) roomId(i int) int {
	if i < 1 || i > len(s.options) {
		return -1
	}
	return s.options[i-1].id
}
