package fetch

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
)

// ChunkReader wraps an io.Reader and reports cumulative progress after each
// read.
type ChunkReader struct {
	r     io.Reader
	fn    ProgressFunc
	read  int64
	total int64
}

// NewChunkReader creates a reader that calls fn with the running byte count.
// A negative total (unknown Content-Length) is normalized to 0.
func NewChunkReader(r io.Reader, total int64, fn ProgressFunc) *ChunkReader {
	if total < 0 {
		total = 0
	}

	return &ChunkReader{r: r, fn: fn, total: total}
}

// Read forwards to the wrapped reader and reports progress.
func (c *ChunkReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.read += int64(n)

		if c.fn != nil {
			c.fn(c.read, c.total)
		}
	}

	return n, err
}

const bytesPerMb = 1024 * 1024

// ConsoleProgress returns a ProgressFunc that rewrites a single progress line
// on w using a carriage return. The line is padded to the widest text printed
// so far, so a shrinking line leaves no stale tail characters.
func ConsoleProgress(w io.Writer) ProgressFunc {
	maxWidth := 0

	return func(read, total int64) {
		var line string

		readMb := float64(read) / bytesPerMb

		if total > 0 {
			totalMb := float64(total) / bytesPerMb
			percent := float64(read) / float64(total) * 100
			line = fmt.Sprintf("Downloaded %8.2f of %8.2f Mb (%6.2f%%)", readMb, totalMb, percent)
		} else {
			line = fmt.Sprintf("Downloaded %8.2f Mb", readMb)
		}

		if width := runewidth.StringWidth(line); width > maxWidth {
			maxWidth = width
		}

		fmt.Fprintf(w, "\r%s", runewidth.FillRight(line, maxWidth))
	}
}

// FinishProgress ends the in-place progress line with a newline.
func FinishProgress(w io.Writer) {
	fmt.Fprintln(w)
}
