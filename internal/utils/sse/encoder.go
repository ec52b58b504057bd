package sse

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteDelta writes one data frame carrying content as the first choice's delta.
func WriteDelta(w io.Writer, content string) error {
	payload, err := json.Marshal(Chunk{Choices: []Choice{{Delta: Delta{Content: &content}}}})
	if err != nil {
		return fmt.Errorf("failed to encode chunk: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s %s\n\n", dataPrefix, payload); err != nil {
		return err
	}
	return nil
}

// WriteDone writes the terminal sentinel frame.
func WriteDone(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s %s\n\n", dataPrefix, DoneSentinel)
	return err
}
