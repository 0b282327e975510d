package notify

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// maxLineSize bounds a single event line, guarding a reader against an
// endless line from a misbehaving writer.
const maxLineSize = 64 * 1024

// Emitter writes one JSON object per line to an underlying writer. It is
// safe only for a single writer goroutine at a time — callers serialize
// concurrent emits themselves.
type Emitter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewEmitter wraps w for newline-delimited JSON event output.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w, encoder: json.NewEncoder(w)}
}

// Emit encodes event as a single JSON line.
func (e *Emitter) Emit(event interface{}) error {
	if err := e.encoder.Encode(event); err != nil {
		return fmt.Errorf("notify: encoding event: %w", err)
	}
	return nil
}

// Decoder reads newline-delimited JSON events back, for tooling that
// consumes an emitted event stream.
type Decoder struct {
	scanner *bufio.Scanner
}

// NewDecoder wraps r for reading events written by an Emitter.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4096), maxLineSize)
	return &Decoder{scanner: scanner}
}

// Next decodes the next event line into v, a pointer to one of the event
// types in this package (or a map[string]interface{} for untyped reads).
// Returns io.EOF when the stream is exhausted.
func (d *Decoder) Next(v interface{}) error {
	if !d.scanner.Scan() {
		if err := d.scanner.Err(); err != nil {
			return fmt.Errorf("notify: reading event: %w", err)
		}
		return io.EOF
	}
	if err := json.Unmarshal(d.scanner.Bytes(), v); err != nil {
		return fmt.Errorf("notify: decoding event: %w", err)
	}
	return nil
}
