package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sadopc/remmeter/internal/store"
)

func WriteJSON(w io.Writer, sessions []store.Session) error {
	data, err := json.MarshalIndent(newDocument(sessions), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
