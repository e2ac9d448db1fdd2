package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Sink is a buffered destination for rendered transactions.
type Sink struct {
	w    *bufio.Writer
	file *os.File // nil when writing to stdout
}

// Open returns a Sink on stdout, or, when appendPath is set, on that file
// opened for appending. The file must already exist.
func Open(appendPath string, stdout io.Writer) (*Sink, error) {
	if appendPath == "" {
		return &Sink{w: bufio.NewWriter(stdout)}, nil
	}

	f, err := os.OpenFile(appendPath, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s for append: %w", appendPath, err)
	}
	return &Sink{w: bufio.NewWriter(f), file: f}, nil
}

// Write buffers p. Close flushes whatever is still buffered.
func (s *Sink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Close flushes buffered output and closes the file, if any.
func (s *Sink) Close() error {
	err := s.w.Flush()
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
