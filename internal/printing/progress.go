package printing

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
)

const progressWidth = 40

// Progress draws a progress bar for done of total steps. On a terminal the bar is
// redrawn in place; elsewhere only the completed bar is written.
func (p *Printer) Progress(label string, done, total int) {
	if total <= 0 {
		return
	}
	done = min(max(done, 0), total)
	complete := done == total
	if !p.terminal && !complete {
		return
	}

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(progressWidth),
		progress.WithoutPercentage(),
		progress.WithColorProfile(p.renderer.ColorProfile()),
	)
	line := fmt.Sprintf("%s %s %d/%d", label, bar.ViewAs(float64(done)/float64(total)), done, total)

	if p.terminal {
		_, _ = fmt.Fprint(p.Out, "\r"+line)
		if complete {
			_, _ = fmt.Fprintln(p.Out)
		}
		return
	}
	p.line(line)
}
