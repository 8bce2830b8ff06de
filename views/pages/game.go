// Package pages renders full HTML documents.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"hangman/internal/viewmodel"
	"hangman/views/components"
)

const head = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>`

const assets = `</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bulma@0.9.4/css/bulma.min.css">
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
</head>
<body>
<section class="section">
<div class="container" hx-ext="sse" sse-connect="/stream">
<div sse-swap="board" hx-target="#board" hx-swap="outerHTML"></div>
`

const tail = `<form method="POST" action="/new" class="has-text-centered">
<button type="submit" class="button is-primary">New game</button>
</form>
</div>
</section>
<script>
setInterval(function () {
	var el = document.querySelector(".countdown");
	if (!el) { return; }
	var left = Math.max(0, Math.ceil((Number(el.dataset.deadlineMs) - Date.now()) / 1000));
	el.textContent = left + "s";
	if (left === 0 && !el.dataset.expired) {
		el.dataset.expired = "1";
		htmx.ajax("GET", "/board", {target: "#board", swap: "outerHTML"});
	}
}, 250);
</script>
</body>
</html>`

// GamePage renders the whole page around the board fragment.
func GamePage(data viewmodel.GamePage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, head+templ.EscapeString(data.Title)+assets); err != nil {
			return err
		}
		if err := components.Board(data.Board).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, tail)
		return err
	})
}
