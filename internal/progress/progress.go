// Package progress shows a progress bar while sources are refreshed.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/klauern/skillcast/internal/logging"
	"github.com/klauern/skillcast/internal/ui"
)

// Bar wraps progressbar with skillcast's color and logging settings. A
// disabled bar only logs at debug level.
type Bar struct {
	bar     *progressbar.ProgressBar
	enabled bool
	desc    string
	done    int
	max     int
}

// Options configures the progress bar behavior.
type Options struct {
	// Max is the number of steps.
	Max int
	// Description is the prefix text shown before the progress bar.
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
	// Force shows the bar even when Writer is not a terminal.
	Force bool
}

// New creates a progress bar. It is only drawn when colors are enabled, the
// writer is a terminal, and the logger is not at debug level, so it never
// interleaves with logs or piped output.
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	b := &Bar{
		enabled: opts.Force || shouldShowProgress(opts.Writer),
		desc:    opts.Description,
		max:     opts.Max,
	}
	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s started", opts.Description), logging.Count(opts.Max))
		return b
	}

	b.bar = progressbar.NewOptions(
		opts.Max,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprint(opts.Writer, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)
	return b
}

// Step records one finished item and shows its name.
func (b *Bar) Step(name string) {
	b.done++
	if !b.enabled {
		logging.Debug(b.desc, logging.Source(name), "step", b.done, logging.Count(b.max))
		return
	}
	b.bar.Describe(fmt.Sprintf("%s %s", b.desc, name))
	_ = b.bar.Add(1)
}

// Done returns the number of finished steps.
func (b *Bar) Done() int {
	return b.done
}

// Enabled reports whether the bar is drawn.
func (b *Bar) Enabled() bool {
	return b.enabled
}

// Finish completes the progress bar and removes it from the terminal.
func (b *Bar) Finish() error {
	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s completed", b.desc), logging.Count(b.done))
		return nil
	}
	if err := b.bar.Finish(); err != nil {
		return err
	}
	return b.bar.Clear()
}

// shouldShowProgress determines if progress bars should be displayed.
func shouldShowProgress(w io.Writer) bool {
	if !ui.IsColorEnabled() {
		return false
	}
	f, ok := w.(*os.File)
	if !ok || !ui.IsTerminal(f) {
		return false
	}
	return !logging.Default().Enabled(context.Background(), logging.LevelDebug)
}
