package render

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/themebridge/internal/host"
	"git.home.luguber.info/inful/themebridge/internal/logfields"
	"git.home.luguber.info/inful/themebridge/internal/metrics"
	"git.home.luguber.info/inful/themebridge/internal/translate"
)

// Bridge renders host pages with a foreign theme: it translates the host context
// and executes the resulting template.
type Bridge struct {
	env        *Environment
	translator *translate.Translator
	recorder   metrics.Recorder
	logger     *slog.Logger
}

// NewBridge returns a bridge over env and translator. A nil recorder or logger
// selects the no-op recorder and the default logger.
func NewBridge(env *Environment, translator *translate.Translator, recorder metrics.Recorder, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{env: env, translator: translator, recorder: metrics.OrNoop(recorder), logger: logger}
}

// Render returns the page markup. Failures are rendered as an in-page error block.
func (b *Bridge) Render(ctx context.Context, template string, hc *host.Context) string {
	out, _ := b.RenderPage(ctx, template, hc)
	return out
}

// RenderPage is Render that also reports the failure the output may describe.
// The returned markup is always usable.
func (b *Bridge) RenderPage(ctx context.Context, template string, hc *host.Context) (string, error) {
	return b.render(ctx, "Render", template, hc, b.translator.Translate)
}

// RenderStatic renders a theme-level template such as 404.html in the context of
// hc without feeding the search index.
func (b *Bridge) RenderStatic(ctx context.Context, template string, hc *host.Context) (string, error) {
	return b.render(ctx, "RenderStatic", template, hc, b.translator.TranslateStatic)
}

// NewestTemplateMtime reports when the theme's templates last changed.
func (b *Bridge) NewestTemplateMtime() time.Time {
	return b.translator.Theme().NewestTemplateMtime()
}

type translateFunc func(context.Context, *host.Context, string) (*translate.Context, string, error)

func (b *Bridge) render(ctx context.Context, op, template string, hc *host.Context, tr translateFunc) (string, error) {
	data, name, err := tr(ctx, hc, template)
	if err == nil {
		var out string
		out, err = b.env.ExecuteString(name, data)
		if err == nil {
			return out, nil
		}
	}

	page := ""
	if hc != nil {
		page = hc.PageName
	}
	b.recorder.IncRenderFailure(template)
	b.logger.WarnContext(ctx, "Rendering failed",
		logfields.Page(page),
		logfields.Template(template),
		logfields.Error(err))
	return ErrorBlock(op, err), err
}

// ErrorBlock formats err for display inside a page.
func ErrorBlock(op string, err error) string {
	return fmt.Sprintf("Error occurred in Bridge.%s()\n<pre>%s</pre>", op, html.EscapeString(err.Error()))
}
