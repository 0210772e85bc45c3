// Package uistream encodes and decodes the UI message stream the chat front
// end consumes: server-sent events whose data lines are JSON parts, closed
// by a literal [DONE].
package uistream

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	HeaderName  = "x-vercel-ai-ui-message-stream"
	HeaderValue = "v1"

	doneMarker = "[DONE]"
)

const (
	PartStart      = "start"
	PartStartStep  = "start-step"
	PartTextStart  = "text-start"
	PartTextDelta  = "text-delta"
	PartTextEnd    = "text-end"
	PartFinishStep = "finish-step"
	PartFinish     = "finish"
	PartError      = "error"
)

type Part struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	Delta     string `json:"delta,omitempty"`
	ErrorText string `json:"errorText,omitempty"`
}

// SetHeaders marks a response as a UI message stream.
func SetHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	h.Set(HeaderName, HeaderValue)
}

// Writer emits one assistant message as a sequence of parts.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
	textID  string
	textOn  bool
}

// NewWriter flushes after every part when w is an http.Flusher.
func NewWriter(w io.Writer) *Writer {
	f, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: f}
}

func (w *Writer) write(data string) error {
	if _, err := fmt.Fprintf(w.w, "data: %s\n\n", data); err != nil {
		return err
	}
	if w.flusher != nil {
		w.flusher.Flush()
	}
	return nil
}

func (w *Writer) writePart(p Part) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return w.write(string(b))
}

// Start opens the message; textID names the single text block that follows.
func (w *Writer) Start(messageID, textID string) error {
	w.textID = textID
	if err := w.writePart(Part{Type: PartStart, MessageID: messageID}); err != nil {
		return err
	}
	return w.writePart(Part{Type: PartStartStep})
}

func (w *Writer) Text(delta string) error {
	if !w.textOn {
		if err := w.writePart(Part{Type: PartTextStart, ID: w.textID}); err != nil {
			return err
		}
		w.textOn = true
	}
	return w.writePart(Part{Type: PartTextDelta, ID: w.textID, Delta: delta})
}

func (w *Writer) closeText() error {
	if !w.textOn {
		return nil
	}
	w.textOn = false
	return w.writePart(Part{Type: PartTextEnd, ID: w.textID})
}

func (w *Writer) Finish() error {
	if err := w.closeText(); err != nil {
		return err
	}
	if err := w.writePart(Part{Type: PartFinishStep}); err != nil {
		return err
	}
	if err := w.writePart(Part{Type: PartFinish}); err != nil {
		return err
	}
	return w.write(doneMarker)
}

// Error ends the stream with an error part. Text already sent stands.
func (w *Writer) Error(text string) error {
	if err := w.closeText(); err != nil {
		return err
	}
	if err := w.writePart(Part{Type: PartError, ErrorText: text}); err != nil {
		return err
	}
	return w.write(doneMarker)
}

// ErrStreamError wraps the errorText of an error part.
var ErrStreamError = errors.New("stream error")

// Reader decodes parts from a UI message stream.
type Reader struct {
	r    *bufio.Reader
	done bool
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next part, or io.EOF after [DONE]. A stream closed before
// [DONE] yields io.ErrUnexpectedEOF.
func (r *Reader) Next() (Part, error) {
	if r.done {
		return Part{}, io.EOF
	}
	for {
		line, err := r.r.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			if err == io.EOF {
				return Part{}, io.ErrUnexpectedEOF
			}
			return Part{}, err
		}
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == doneMarker {
			r.done = true
			return Part{}, io.EOF
		}
		var p Part
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return Part{}, fmt.Errorf("decode stream part: %w", err)
		}
		return p, nil
	}
}
