package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"schemadoc/internal/introspect"
)

// Bar reports per-object export progress on a terminal.
type Bar struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func NewBar(out io.Writer) *Bar {
	return &Bar{out: out}
}

// Start sizes the bar once the catalog is known.
func (b *Bar) Start(total int) {
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.out),
		progressbar.OptionSetDescription("exporting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(b.out)
		}),
	)
}

// Step advances the bar and shows the object being serialized.
func (b *Bar) Step(k introspect.Kind, name string) {
	if b.bar == nil {
		return
	}
	b.bar.Describe(fmt.Sprintf("%-9s %s", k.Label(), name))
	b.bar.Add(1)
}

func (b *Bar) Finish() {
	if b.bar == nil {
		return
	}
	b.bar.Finish()
}
