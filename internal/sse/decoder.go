// Package sse decodes and encodes the server-sent-events framing used by
// streaming chat completion APIs.
package sse

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"iter"
)

// DoneSentinel is the data payload that terminates a completion stream.
const DoneSentinel = "[DONE]"

const readChunkSize = 4096

// Decoder turns raw byte chunks into text deltas. Lines may be split across
// chunks; only "data:" lines are considered. A Decoder is single-use.
type Decoder struct {
	buf  []byte
	done bool
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Done reports whether the [DONE] sentinel has been seen.
func (d *Decoder) Done() bool {
	return d.done
}

// Feed consumes chunk and returns the deltas completed by it, in order.
// Input after the sentinel is ignored.
func (d *Decoder) Feed(chunk []byte) []string {
	if d.done {
		return nil
	}
	d.buf = append(d.buf, chunk...)

	var deltas []string
	for !d.done {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := d.buf[:i]
		d.buf = d.buf[i+1:]
		if delta, ok := d.line(line); ok {
			deltas = append(deltas, delta)
		}
	}
	if d.done {
		d.buf = nil
	}
	return deltas
}

// Flush handles a final line that arrived without a trailing newline.
func (d *Decoder) Flush() []string {
	if d.done || len(d.buf) == 0 {
		return nil
	}
	line := d.buf
	d.buf = nil
	if delta, ok := d.line(line); ok {
		return []string{delta}
	}
	return nil
}

func (d *Decoder) line(line []byte) (string, bool) {
	line = bytes.TrimRight(line, "\r")
	payload, ok := bytes.CutPrefix(line, []byte("data:"))
	if !ok {
		return "", false
	}
	payload = bytes.TrimSpace(payload)
	if string(payload) == DoneSentinel {
		d.done = true
		return "", false
	}
	delta, err := ChunkDelta(payload)
	if err != nil || delta == "" {
		return "", false
	}
	return delta, true
}

// chunk is one chat.completion.chunk event.
type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// ChunkDelta extracts choices[0].delta.content from one JSON fragment.
func ChunkDelta(payload []byte) (string, error) {
	var c chunk
	if err := json.Unmarshal(payload, &c); err != nil {
		return "", err
	}
	if len(c.Choices) == 0 {
		return "", nil
	}
	return c.Choices[0].Delta.Content, nil
}

// Deltas returns a lazy sequence of text deltas read from r. Every range over
// the sequence starts a fresh Decoder. Reading stops at the sentinel or EOF.
func Deltas(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		d := NewDecoder()
		buf := make([]byte, readChunkSize)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				for _, delta := range d.Feed(buf[:n]) {
					if !yield(delta, nil) {
						return
					}
				}
				if d.Done() {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				for _, delta := range d.Flush() {
					if !yield(delta, nil) {
						return
					}
				}
				return
			}
			if err != nil {
				yield("", err)
				return
			}
		}
	}
}
