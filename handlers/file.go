// file.go: a size-rotating file Handler, grounded on the example
// corpus's flocklogger.go (bufio.Writer over an *os.File, lock around
// rotation, size-triggered rotate-then-reopen) and rewired onto
// github.com/gofrs/flock for the cross-process advisory lock (rather
// than flocklogger.go's direct golang.org/x/sys/unix.Flock, which
// only runs on Unix) and github.com/klauspost/compress/gzip for
// compressing rotated files.
//
// Background compression of rotated generations runs through a
// bounded buffered channel drained by one goroutine: rotate() is
// always called from the one backend goroutine that owns this
// handler, so it is a true single producer, and compressLoop is the
// single consumer. That is the whole of the concurrency this needs;
// a dedicated disruptor-style ring would be doing a lot of work this
// handler's throughput never asks for.
package handlers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	kpgzip "github.com/klauspost/compress/gzip"

	"github.com/agilira/pulse"
	"github.com/agilira/pulse/internal/bufferpool"
)

const defaultFileBufferSize = 4096

// compressQueueCapacity bounds how many rotated generations can be
// awaiting background compression at once. A rotation that arrives
// while the queue is full simply leaves that generation uncompressed
// rather than blocking the backend goroutine.
const compressQueueCapacity = 16

// FileHandler writes formatted records to a size-rotating file,
// compressing rotated generations in the background. Exclusive to one
// backend goroutine per spec.md §6 ("Handlers... invoked only by the
// backend goroutine"), so the handler itself needs no internal
// synchronization beyond what cross-process coordination requires.
type FileHandler struct {
	path       string
	maxSize    int64
	maxBackups int
	compress   bool

	file        *os.File
	writer      *bufio.Writer
	currentSize int64

	lock *flock.Flock

	compressQueue chan string
	compressDone  chan struct{}
}

// NewFileHandler opens (creating if necessary) path for append, ready
// to rotate once it exceeds maxSize bytes, keeping at most maxBackups
// rotated generations.
func NewFileHandler(path string, maxSize int64, maxBackups int) (*FileHandler, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("pulse/handlers: creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("pulse/handlers: opening log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pulse/handlers: statting log file: %w", err)
	}

	if maxSize <= 0 {
		maxSize = 10 * 1024 * 1024
	}
	if maxBackups <= 0 {
		maxBackups = 5
	}

	h := &FileHandler{
		path:        path,
		maxSize:     maxSize,
		maxBackups:  maxBackups,
		compress:    true,
		file:        f,
		writer:      bufio.NewWriterSize(f, defaultFileBufferSize),
		currentSize: info.Size(),
		lock:        flock.New(path + ".lock"),
	}
	h.startCompressQueue()
	return h, nil
}

// startCompressQueue starts the single background compression
// consumer. A rotation that arrives while the channel is full simply
// leaves that generation uncompressed rather than blocking the
// backend goroutine (see compressQueueCapacity).
func (h *FileHandler) startCompressQueue() {
	h.compressQueue = make(chan string, compressQueueCapacity)
	h.compressDone = make(chan struct{})
	go h.compressLoop()
}

// compressLoop is the queue's single consumer: it compresses each
// rotated generation path as it arrives, and exits once compressQueue
// is closed and drained.
func (h *FileHandler) compressLoop() {
	defer close(h.compressDone)
	for path := range h.compressQueue {
		h.compressPath(path)
	}
}

// WithCompression toggles gzip compression of rotated generations.
func (h *FileHandler) WithCompression(enabled bool) *FileHandler {
	h.compress = enabled
	return h
}

// Write appends one formatted record, rotating first if it would push
// the file past maxSize. formatted already carries no trailing
// newline; Write adds one, matching the teacher's line-oriented
// convention.
func (h *FileHandler) Write(formatted string, meta pulse.Metadata) error {
	buf := bufferpool.Get()
	defer bufferpool.Put(buf)
	buf.WriteString(formatted)
	buf.WriteByte('\n')

	if err := h.lock.Lock(); err != nil {
		return fmt.Errorf("pulse/handlers: acquiring file lock: %w", err)
	}
	defer h.lock.Unlock()

	if h.currentSize+int64(buf.Len()) > h.maxSize {
		if err := h.rotate(); err != nil {
			return err
		}
	}

	n, err := h.writer.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("pulse/handlers: writing log entry: %w", err)
	}
	h.currentSize += int64(n)
	return nil
}

// Flush flushes the buffered writer to the underlying file.
func (h *FileHandler) Flush() error {
	if h.writer == nil {
		return nil
	}
	return h.writer.Flush()
}

// Close flushes and releases the underlying file and lock, waiting
// for any in-flight background compression to finish.
func (h *FileHandler) Close() error {
	if err := h.Flush(); err != nil {
		return err
	}
	err := h.file.Close()
	if h.compressQueue != nil {
		close(h.compressQueue) // compressLoop drains remaining generations, then exits
		<-h.compressDone
	}
	return err
}

func (h *FileHandler) rotate() error {
	if err := h.writer.Flush(); err != nil {
		return fmt.Errorf("pulse/handlers: flushing before rotate: %w", err)
	}
	if err := h.file.Close(); err != nil {
		return fmt.Errorf("pulse/handlers: closing before rotate: %w", err)
	}

	for i := h.maxBackups - 1; i > 0; i-- {
		oldPath := h.generationPath(i)
		newPath := h.generationPath(i + 1)
		if i+1 == h.maxBackups {
			os.Remove(newPath)
			os.Remove(newPath + ".gz")
		}
		if _, err := os.Stat(oldPath); err == nil {
			os.Rename(oldPath, newPath)
			continue
		}
		if _, err := os.Stat(oldPath + ".gz"); err == nil {
			os.Rename(oldPath+".gz", newPath+".gz")
		}
	}

	rotated := h.generationPath(1)
	if err := os.Rename(h.path, rotated); err != nil {
		return fmt.Errorf("pulse/handlers: rotating current log: %w", err)
	}
	if h.compress && h.compressQueue != nil {
		select {
		case h.compressQueue <- rotated:
		default:
			// Queue full: leave this generation uncompressed rather than
			// block the backend goroutine that owns this handler.
		}
	}

	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("pulse/handlers: reopening log file: %w", err)
	}
	h.file = f
	h.writer = bufio.NewWriterSize(f, defaultFileBufferSize)
	h.currentSize = 0
	return nil
}

func (h *FileHandler) generationPath(n int) string {
	return fmt.Sprintf("%s.%d", h.path, n)
}

// compressPath gzips the rotated generation at path and removes the
// uncompressed original.
func (h *FileHandler) compressPath(path string) {
	src, err := os.Open(path)
	if err != nil {
		return
	}
	defer src.Close()

	dst, err := os.OpenFile(path+".gz", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return
	}
	defer dst.Close()

	gw := kpgzip.NewWriter(dst)
	if _, err := io.Copy(gw, src); err != nil {
		gw.Close()
		os.Remove(path + ".gz")
		return
	}
	if err := gw.Close(); err != nil {
		os.Remove(path + ".gz")
		return
	}
	os.Remove(path)
}
