package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"benchtrack/internal/domain"
)

// JSONCodec reads and writes the dataset as a single JSON document
// with a metadata envelope. Output is indented for diff-friendliness.
type JSONCodec struct{}

func (JSONCodec) Format() string { return "json" }

func (JSONCodec) Export(ds *domain.Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

func (JSONCodec) Parse(r io.Reader) (*domain.Dataset, error) {
	var ds domain.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &ds, nil
}
