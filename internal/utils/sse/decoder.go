// Package sse decodes and encodes the line-oriented event stream spoken by
// chat-completion style endpoints: "data: <json>" lines, ":" comments and a
// terminal "data: [DONE]".
package sse

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
)

const (
	dataPrefix    = "data:"
	commentPrefix = ":"

	// DoneSentinel is the data value that ends a stream.
	DoneSentinel = "[DONE]"

	// DefaultMaxPendingBytes caps the buffer while a data line is waiting to become
	// valid JSON, and caps a line that has not seen its newline yet.
	DefaultMaxPendingBytes = 64 << 10
	// DefaultMaxRetries is how many further reads a data line may wait for before it is dropped.
	DefaultMaxRetries = 3

	readSize = 4 << 10
)

// Delta is the incremental part of a streamed choice.
type Delta struct {
	Content *string `json:"content,omitempty"`
}

// Choice is one entry of a streamed chunk.
type Choice struct {
	Delta Delta `json:"delta"`
}

// Chunk is the JSON payload of one data frame.
type Chunk struct {
	Choices []Choice `json:"choices"`
}

// DeltaContent returns the text delta of the first choice, or "" when absent.
func (c *Chunk) DeltaContent() string {
	if c == nil || len(c.Choices) == 0 || c.Choices[0].Delta.Content == nil {
		return ""
	}
	return *c.Choices[0].Delta.Content
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithMaxPendingBytes overrides DefaultMaxPendingBytes.
func WithMaxPendingBytes(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxPending = n
		}
	}
}

// WithMaxRetries overrides DefaultMaxRetries. Zero drops an unparsable line immediately.
func WithMaxRetries(n int) Option {
	return func(d *Decoder) {
		if n >= 0 {
			d.maxRetries = n
		}
	}
}

// WithLogger sets the logger used to report dropped lines.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Decoder pulls Chunks out of an arbitrarily chunked reader.
//
// A data line that does not parse is put back at the head of the buffer and
// retried once more input has arrived. The wait is bounded: after maxRetries
// reads, when the buffer outgrows maxPending, or at end of input, the line is
// dropped and decoding resumes with the next line. An unterminated line longer
// than maxPending is discarded along with the rest of its input up to the next
// newline.
type Decoder struct {
	r          io.Reader
	readBuf    []byte
	pending    string
	stalled    bool
	skipLine   bool
	retries    int
	eof        bool
	done       bool
	maxPending int
	maxRetries int
	logger     *slog.Logger
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{
		r:          r,
		readBuf:    make([]byte, readSize),
		maxPending: DefaultMaxPendingBytes,
		maxRetries: DefaultMaxRetries,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Next returns the next decoded chunk. It returns io.EOF once the sentinel has
// been seen or the reader is exhausted.
func (d *Decoder) Next() (*Chunk, error) {
	for {
		if d.done {
			return nil, io.EOF
		}
		if chunk, ok := d.drain(); ok {
			return chunk, nil
		}
		if d.done {
			return nil, io.EOF
		}
		if d.eof {
			if d.pending == "" {
				d.done = true
				return nil, io.EOF
			}
			if d.stalled {
				d.dropHead("stream ended")
				continue
			}
			// Final line without a terminating newline.
			d.pending += "\n"
			continue
		}

		n, err := d.r.Read(d.readBuf)
		if n > 0 {
			d.append(string(d.readBuf[:n]))
			if d.stalled {
				d.retries++
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				d.eof = true
				continue
			}
			return nil, err
		}
	}
}

// append adds freshly read input to the buffer and enforces the cap on the
// line still waiting for its newline.
func (d *Decoder) append(in string) {
	if d.skipLine {
		idx := strings.IndexByte(in, '\n')
		if idx < 0 {
			return
		}
		in = in[idx+1:]
		d.skipLine = false
	}
	d.pending += in

	start := strings.LastIndexByte(d.pending, '\n') + 1
	if tail := len(d.pending) - start; tail > d.maxPending {
		d.pending = d.pending[:start]
		d.skipLine = true
		d.logger.Warn("Dropping stream line",
			slog.String("reason", "line exceeds buffer cap"),
			slog.Int("retries", d.retries),
			slog.Int("length", tail))
	}
}

// drain extracts complete lines from the buffer until one yields a chunk.
func (d *Decoder) drain() (*Chunk, bool) {
	for {
		idx := strings.IndexByte(d.pending, '\n')
		if idx < 0 {
			return nil, false
		}
		line := strings.TrimSuffix(d.pending[:idx], "\r")
		rest := d.pending[idx+1:]

		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, commentPrefix) || !strings.HasPrefix(line, dataPrefix) {
			d.pending = rest
			continue
		}

		payload := strings.TrimSpace(line[len(dataPrefix):])
		if payload == DoneSentinel {
			d.pending = rest
			d.done = true
			return nil, false
		}

		var chunk Chunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			if d.stalled && (d.retries >= d.maxRetries || len(d.pending) > d.maxPending) {
				d.dropHead("unparsable data line")
				continue
			}
			if d.maxRetries == 0 {
				d.stalled = true
				d.dropHead("unparsable data line")
				continue
			}
			// Leave the line at the head of the buffer and wait for more input.
			d.stalled = true
			return nil, false
		}

		d.pending = rest
		d.stalled = false
		d.retries = 0
		return &chunk, true
	}
}

// dropHead discards the first buffered line.
func (d *Decoder) dropHead(reason string) {
	idx := strings.IndexByte(d.pending, '\n')
	dropped := d.pending
	if idx >= 0 {
		dropped = d.pending[:idx]
		d.pending = d.pending[idx+1:]
	} else {
		d.pending = ""
	}
	d.logger.Warn("Dropping stream line",
		slog.String("reason", reason),
		slog.Int("retries", d.retries),
		slog.Int("length", len(dropped)))
	d.stalled = false
	d.retries = 0
}
