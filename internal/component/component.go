package component

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/felixbrock/patentace/internal/app"
	"github.com/felixbrock/patentace/internal/domain"
	"github.com/felixbrock/patentace/internal/playbook"
)

func page(title string, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html><head><title>%s</title></head><body>`, templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func Index(stats playbook.Stats, bullets []domain.Bullet) templ.Component {
	return page("patentace playbook", func(w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<h1>Playbook</h1><p>%d sections, %d bullets (helpful: %d, harmful: %d)</p>`,
			stats.Sections, stats.Bullets, stats.HelpfulTotal, stats.HarmfulTotal); err != nil {
			return err
		}

		section := ""
		open := false
		for _, b := range bullets {
			if b.Section != section {
				if open {
					if _, err := io.WriteString(w, `</ul>`); err != nil {
						return err
					}
				}
				section = b.Section
				open = true
				if _, err := fmt.Fprintf(w, `<h2>%s</h2><ul>`, templ.EscapeString(section)); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, `<li><code>%s</code> (+%d/-%d) %s</li>`,
				templ.EscapeString(b.Id), b.HelpfulCount, b.HarmfulCount, templ.EscapeString(b.Content)); err != nil {
				return err
			}
		}
		if open {
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<p><a href="/snapshot">snapshot</a></p>`)
		return err
	})
}

func Run(summary app.RunSummary) templ.Component {
	return page("patentace run", func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>Run %s</h1><table><tr><th>prediction</th><th>ground truth</th><th>accuracy</th><th>skipped</th></tr>`,
			templ.EscapeString(summary.RunId)); err != nil {
			return err
		}
		for _, result := range summary.Results {
			if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%.3f</td><td>%t</td></tr>`,
				templ.EscapeString(result.GeneratorOutput.FinalAnswer),
				templ.EscapeString(result.Sample.GroundTruth),
				result.EnvironmentResult.Metrics["accuracy"],
				result.Skipped); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</table>`); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `<p>Playbook now: %d sections, %d bullets</p><p><a href="/">back</a></p>`,
			summary.Stats.Sections, summary.Stats.Bullets)
		return err
	})
}

func Error(code int, title string, msg string) templ.Component {
	return page(title, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1>%d %s</h1><p>%s</p>`,
			code, templ.EscapeString(title), templ.EscapeString(msg))
		return err
	})
}
