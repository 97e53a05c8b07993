// Package display renders rooms for the line-based session and editor.
package display

import (
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pixil98/go-portal/internal/world"
)

const DefaultWidth = 80

func templateFuncs() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["wrap"] = Wrap
	return funcs
}

const roomTemplate = `{{ repeat 10 "=" }} {{ .Room.Title }} (id={{ .Room.Id }}) {{ repeat 10 "=" }}
{{ wrap .Room.Description }}
{{- if .Room.Image }}
Image file: {{ .Room.Image }}
{{- end }}
{{- if gt .Room.Coins 0 }}
You see {{ .Room.Coins }} coin(s) here.
{{- end }}
Your coins: {{ .Coins }}
`

const detailTemplate = `Room {{ .Id }}: {{ .Title }}
{{ wrap .Description }}
{{- if .Image }}
Image: {{ .Image }}
{{- end }}
Coins: {{ .Coins }}
Exits:
{{- range $i, $e := .Exits }}
  {{ add $i 1 }}. {{ $e.Label }} [{{ $e.Role }}{{ if eq (printf "%s" $e.Role) "link" }} -> {{ $e.Target }}{{ end }}]
{{- end }}
`

var (
	roomTmpl   = template.Must(template.New("room").Funcs(templateFuncs()).Parse(roomTemplate))
	detailTmpl = template.Must(template.New("detail").Funcs(templateFuncs()).Parse(detailTemplate))

	titleCaser = cases.Title(language.English)
)

type roomView struct {
	Room  *world.Room
	Coins int
}

// Room writes the standard in-game room panel.
func Room(w io.Writer, r *world.Room, playerCoins int) error {
	return roomTmpl.Execute(w, roomView{Room: r, Coins: playerCoins})
}

// RoomDetail writes the editor's full view of a room, exits included.
func RoomDetail(w io.Writer, r *world.Room) error {
	return detailTmpl.Execute(w, r)
}

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return wordwrap.String(text, DefaultWidth)
}

// Title normalizes a player-entered title for one-line listings.
func Title(s string) string {
	return titleCaser.String(strings.TrimSpace(s))
}
