// Package fileio provides scoped, mmap-backed access to the large
// line-delimited corpus files the correction pipeline reads: anagram-hash
// dumps, frequency tables, index files and confusion lists.
package fileio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// LineReader yields successive lines (without trailing newline) from a
// file. Close releases the underlying handle on every exit path.
type LineReader struct {
	f    *os.File
	m    mmap.MMap
	scan *bufio.Scanner
}

// Open maps path read-only and prepares it for line-by-line scanning.
// Empty files cannot be mmap'd; Open falls back to a plain buffered
// reader for them so callers never need to special-case size zero.
func Open(path string) (*LineReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fileio: opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("fileio: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return &LineReader{f: f, scan: bufio.NewScanner(f)}, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("fileio: mmap %s: %w", path, err)
	}
	scanner := bufio.NewScanner(newByteReader(m))
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	return &LineReader{f: f, m: m, scan: scanner}, nil
}

// Scan advances to the next line, mirroring bufio.Scanner.Scan.
func (r *LineReader) Scan() bool { return r.scan.Scan() }

// Text returns the current line.
func (r *LineReader) Text() string { return r.scan.Text() }

// Err returns the first non-EOF error encountered.
func (r *LineReader) Err() error { return r.scan.Err() }

// Close releases the mmap (if any) and the file handle.
func (r *LineReader) Close() error {
	var err error
	if r.m != nil {
		err = r.m.Unmap()
	}
	if cerr := r.f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// ForEachLine opens path, calls fn for every line, and guarantees the
// handle is released regardless of how fn or the scan ends.
func ForEachLine(path string, fn func(line string) error) error {
	r, err := Open(path)
	if err != nil {
		return err
	}
	defer r.Close()
	for r.Scan() {
		if err := fn(r.Text()); err != nil {
			return err
		}
	}
	return r.Err()
}

type byteReader struct {
	b   []byte
	pos int
}

func newByteReader(b []byte) *byteReader { return &byteReader{b: b} }

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}
