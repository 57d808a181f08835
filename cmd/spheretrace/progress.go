package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"
	"golang.org/x/term"
	"golang.org/x/time/rate"
)

// progress reports render progress: a self-overwriting line on a terminal, or
// occasional log lines otherwise.
type progress struct {
	frame, frames int
	tty           bool
	limiter       *rate.Limiter
	printed       bool
}

func newProgress(frame, frames int) *progress {
	tty := term.IsTerminal(int(os.Stderr.Fd()))
	every := 10 * time.Second
	if tty {
		every = 100 * time.Millisecond
	}
	return &progress{
		frame:   frame,
		frames:  frames,
		tty:     tty,
		limiter: rate.NewLimiter(rate.Every(every), 1),
	}
}

func (p *progress) update(done, total int) {
	if done != total && !p.limiter.Allow() {
		return
	}
	pct := 100 * done / total
	if p.tty {
		fmt.Fprintf(os.Stderr, "\rframe %d/%d: %d/%d pixels %d%%", p.frame+1, p.frames, done, total, pct)
		p.printed = true
		return
	}
	glog.Infof("Frame %d/%d: %d/%d pixels %d%%", p.frame+1, p.frames, done, total, pct)
}

func (p *progress) finish() {
	if p.printed {
		fmt.Fprintf(os.Stderr, "\n")
	}
}
