package web

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/vare7/cloud-db-inventory/internal/core"
	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// maxSummarySkips caps the skipped rows listed in an import summary.
const maxSummarySkips = 5

// summaryCount is one labelled figure of an import summary.
type summaryCount struct {
	Label string
	Value int64
}

// errorAlert renders the HTMX error fragment.
func errorAlert(msg core.UserMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-error" role="alert"><p>%s</p><p class="alert-action">%s</p><small>Error code: %s</small></div>`,
			templ.EscapeString(msg.Message), templ.EscapeString(msg.Action), templ.EscapeString(msg.Code))
		return err
	})
}

// importSummary renders the outcome of an upload for HTMX forms: the message,
// one line per count and the first skipped rows.
func importSummary(message string, counts []summaryCount, skipped []inventory.SkipEntry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="alert alert-success" role="status"><p>`)
		b.WriteString(templ.EscapeString(message))
		b.WriteString(`</p><ul class="import-counts">`)
		for _, c := range counts {
			fmt.Fprintf(&b, `<li>%s: %d</li>`, templ.EscapeString(c.Label), c.Value)
		}
		b.WriteString(`</ul>`)

		if len(skipped) > 0 {
			b.WriteString(`<details class="import-skipped"><summary>Skipped rows</summary><ul>`)
			for _, s := range skipped[:min(len(skipped), maxSummarySkips)] {
				fmt.Fprintf(&b, `<li>Row %d: %s</li>`, s.RowNumber, templ.EscapeString(s.Reason))
			}
			b.WriteString(`</ul>`)
			if extra := len(skipped) - maxSummarySkips; extra > 0 {
				fmt.Fprintf(&b, `<p>... and %d more</p>`, extra)
			}
			b.WriteString(`</details>`)
		}
		b.WriteString(`</div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// renderPartial writes c as an HTML fragment with the given status.
func renderPartial(ctx context.Context, w http.ResponseWriter, statusCode int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := c.Render(ctx, w); err != nil {
		slog.Error("render partial", "error", err)
	}
}
