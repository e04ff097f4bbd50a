package relay

import (
	"bufio"
	"encoding/json"
	"fmt"
)

// SSESink frames events for a server-sent event stream over a buffered
// response writer. Each write is flushed immediately; a flush error is how a
// peer disconnect surfaces.
type SSESink struct {
	w *bufio.Writer
}

func NewSSESink(w *bufio.Writer) *SSESink {
	return &SSESink{w: w}
}

func (s *SSESink) SendFragment(text string) error {
	return s.send(map[string]string{"data": text})
}

func (s *SSESink) SendError(msg string) error {
	return s.send(map[string]string{"error": msg})
}

// SendDone emits the literal [DONE] sentinel terminating the stream.
func (s *SSESink) SendDone() error {
	if _, err := s.w.WriteString("data: [DONE]\n\n"); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *SSESink) send(payload map[string]string) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sse payload: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", encoded); err != nil {
		return err
	}
	return s.w.Flush()
}
