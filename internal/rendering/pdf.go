package rendering

import (
	"context"
	"log/slog"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/cv-maker/internal/types"
)

// DefaultPDFTimeout bounds a single headless Chrome render
const DefaultPDFTimeout = 30 * time.Second

// A4 in inches, as expected by Page.printToPDF
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// PDFRenderer prints rendered HTML to PDF with headless Chrome.
// Requires Chrome/Chromium to be installed on the system.
type PDFRenderer struct {
	ChromePath string // optional explicit browser binary
	Timeout    time.Duration
	Logger     *slog.Logger
}

// NewPDFRenderer creates a renderer; an empty chromePath lets chromedp locate the browser
func NewPDFRenderer(chromePath string, logger *slog.Logger) *PDFRenderer {
	return &PDFRenderer{ChromePath: chromePath, Timeout: DefaultPDFTimeout, Logger: logger}
}

// Render renders doc to HTML and prints it as an A4 PDF
func (r *PDFRenderer) Render(ctx context.Context, doc types.ResumeDocument, lang types.Language) ([]byte, error) {
	html, err := RenderHTML(doc, lang)
	if err != nil {
		return nil, err
	}
	return r.RenderHTML(ctx, html)
}

// RenderHTML prints an HTML page as an A4 PDF
func (r *PDFRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithPreferCSSPageSize(true).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "headless Chrome failed to print PDF", Cause: err}
	}

	if r.Logger != nil {
		r.Logger.Debug("rendered PDF", "bytes", len(pdf), "duration_ms", time.Since(start).Milliseconds())
	}
	return pdf, nil
}

// ChromeAvailable reports whether a Chrome or Chromium binary can be found
func ChromeAvailable(chromePath string) bool {
	if chromePath != "" {
		_, err := exec.LookPath(chromePath)
		return err == nil
	}
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}
