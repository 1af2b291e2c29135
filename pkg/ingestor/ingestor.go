package ingestor

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-errors/errors"
)

// Line is one raw combat log line as delivered by a source.
type Line struct {
	LineNumber   int
	Raw          string
	DetectedTime time.Time
	// Zone overrides the host's current zone when non-empty.
	Zone string
}

// Result wraps either a successfully read value or a read error,
// similar to Result<T, E> in Rust.
type Result[T any] struct {
	Value T
	Err   error
}

// Ingestor reads log lines from a source and streams them as Results.
type Ingestor interface {
	Ingest(ctx context.Context) (<-chan Result[*Line], error)
}

var _ Ingestor = (*FileIngestor)(nil)

// FileIngestor reads log lines from a file path or stdin.
type FileIngestor struct {
	Path string
	// Follow keeps reading appended lines after EOF until ctx is done.
	Follow bool
	// SkipExisting starts reading at the current end of the file.
	SkipExisting bool
	// PollInterval is the wait between EOF checks in follow mode.
	PollInterval time.Duration
	// Now stamps DetectedTime; defaults to time.Now.
	Now func() time.Time
}

// Ingest reads log lines from the file (or stdin if Path is "-").
// Cancel the context to stop reading early; the goroutine will exit promptly.
func (f *FileIngestor) Ingest(ctx context.Context) (<-chan Result[*Line], error) {
	var file *os.File
	if f.Path == "-" {
		file = os.Stdin
	} else {
		var err error
		file, err = os.Open(f.Path)
		if err != nil {
			return nil, errors.Errorf("open log file: %w", err)
		}
		if f.SkipExisting {
			if _, err := file.Seek(0, io.SeekEnd); err != nil {
				_ = file.Close()
				return nil, errors.Errorf("seek log file: %w", err)
			}
		}
	}

	now := f.Now
	if now == nil {
		now = time.Now
	}
	interval := f.PollInterval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}

	ownFile := f.Path != "-"
	ch := make(chan Result[*Line], 100)
	go func() {
		defer close(ch)

		var fileErr error
		defer func() {
			if ownFile {
				if cerr := file.Close(); cerr != nil {
					fileErr = errors.Join(fileErr, errors.Errorf("close log file: %w", cerr))
				}
			}
			if fileErr != nil {
				select {
				case ch <- Result[*Line]{Err: fileErr}:
				case <-ctx.Done():
				}
			}
		}()

		reader := bufio.NewReader(file)
		lineNum := 0
		var partial strings.Builder
		for {
			chunk, err := reader.ReadString('\n')
			partial.WriteString(chunk)
			if err == nil {
				lineNum++
				raw := strings.TrimRight(partial.String(), "\r\n")
				partial.Reset()
				select {
				case ch <- Result[*Line]{Value: &Line{LineNumber: lineNum, Raw: raw, DetectedTime: now()}}:
				case <-ctx.Done():
					return
				}
				continue
			}
			if !errors.Is(err, io.EOF) {
				fileErr = errors.Errorf("read log file: %w", err)
				return
			}
			if !f.Follow {
				if partial.Len() > 0 {
					lineNum++
					select {
					case ch <- Result[*Line]{Value: &Line{LineNumber: lineNum, Raw: strings.TrimRight(partial.String(), "\r"), DetectedTime: now()}}:
					case <-ctx.Done():
					}
				}
				return
			}
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// Ingest is a convenience function that creates a FileIngestor and reads from it.
// Pass "-" to read from stdin.
func Ingest(ctx context.Context, filePath string) (<-chan Result[*Line], error) {
	return (&FileIngestor{Path: filePath}).Ingest(ctx)
}

// ReadLines reads every line of filePath.
func ReadLines(ctx context.Context, filePath string) ([]string, error) {
	ch, err := Ingest(ctx, filePath)
	if err != nil {
		return nil, err
	}
	var lines []string
	for r := range ch {
		if r.Err != nil {
			return nil, r.Err
		}
		lines = append(lines, r.Value.Raw)
	}
	return lines, nil
}
