// Package components renders page fragments that are swapped in over SSE.
package components

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"hangman/internal/viewmodel"
)

// BoardID is the DOM id of the board fragment.
const BoardID = "board"

// Board renders the masked word, the status line, the countdown and the letter row.
func Board(data viewmodel.Board) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div id="` + BoardID + `" class="box" data-status="` + templ.EscapeString(data.Status) + `">`)
		b.WriteString(`<p class="title is-2 has-text-centered masked-word">` + templ.EscapeString(data.MaskedWord) + `</p>`)
		b.WriteString(`<p class="subtitle has-text-centered status">` + templ.EscapeString(data.StatusText))
		if data.Finished && data.Word != "" {
			b.WriteString(` The word was <strong>` + templ.EscapeString(data.Word) + `</strong>.`)
		}
		b.WriteString(`</p>`)
		if data.HasTimer {
			b.WriteString(`<p class="has-text-centered countdown" data-deadline-ms="` + strconv.FormatInt(data.DeadlineMs, 10) + `">`)
			b.WriteString(strconv.Itoa(data.RemainingSec) + `s</p>`)
		}
		b.WriteString(`<div class="buttons is-centered letters">`)
		for _, l := range data.Letters {
			letter := templ.EscapeString(l.Letter)
			b.WriteString(`<button class="button letter" hx-post="/guess/` + letter + `" hx-target="#` + BoardID + `" hx-swap="outerHTML"`)
			if l.Guessed {
				b.WriteString(` disabled`)
			}
			b.WriteString(`>` + letter + `</button>`)
		}
		b.WriteString(`</div></div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
