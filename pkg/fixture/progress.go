package fixture

import (
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
)

// DefaultBuckets is how many progress notices a run emits at most: roughly one per 1% of rows.
const DefaultBuckets = 100

// Observer receives progress notices from Generate
type Observer interface {
	// Progress is called with the number of rows written so far, never with 0
	Progress(rows int64)
	// Done is called once after the last row is buffered
	Done(rows int64)
}

// ObserverFunc adapts a function to Observer; it sees progress notices only
type ObserverFunc func(rows int64)

func (f ObserverFunc) Progress(rows int64) { f(rows) }
func (f ObserverFunc) Done(int64)          {}

// NopObserver discards all notices
type NopObserver struct{}

func (NopObserver) Progress(int64) {}
func (NopObserver) Done(int64)     {}

// ReportingInterval returns the row granularity of progress notices for a run
// of limit rows split into buckets. It is at least 1, so small limits never
// produce a zero modulus.
func ReportingInterval(limit int64, buckets int) int64 {
	if buckets < 1 {
		buckets = 1
	}
	return max(1, limit/int64(buckets))
}

// LogObserver reports progress as "<n> rows generated" log lines
type LogObserver struct {
	Entry *log.Entry
	Path  string
}

// NewLogObserver logs through the standard logrus logger
func NewLogObserver(path string) *LogObserver {
	return &LogObserver{Entry: log.WithField("component", "generator"), Path: path}
}

func (o *LogObserver) Progress(rows int64) {
	o.Entry.WithField("path", o.Path).Infof("%s rows generated", humanize.Comma(rows))
}

func (o *LogObserver) Done(rows int64) {
	o.Entry.WithField("path", o.Path).Infof("Finished %s rows", humanize.Comma(rows))
}

// BarObserver drives a terminal progress bar
type BarObserver struct {
	bar *progressbar.ProgressBar
}

// NewBarObserver creates a progress bar for a run of total rows
func NewBarObserver(total int64, description string, w io.Writer) *BarObserver {
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() { io.WriteString(w, "\n") }),
	)
	return &BarObserver{bar: bar}
}

func (o *BarObserver) Progress(rows int64) {
	_ = o.bar.Set64(rows)
}

func (o *BarObserver) Done(rows int64) {
	_ = o.bar.Set64(rows)
	_ = o.bar.Finish()
}
