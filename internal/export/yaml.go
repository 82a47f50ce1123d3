package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/remmeter/internal/store"
)

func WriteYAML(w io.Writer, sessions []store.Session) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(sessions)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
