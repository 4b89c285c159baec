package report

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/terrareport/internal/model"
)

// LoadCaptions reads a stem to caption mapping from a YAML or JSON file.
//
//	Germany_NDVI_2018: Germany September 2018 NDVI
//	Germany_NDVI_2019: Germany September 2019 NDVI
//
// An empty path yields an empty mapping.
func LoadCaptions(path string) (model.Captions, error) {
	if path == "" {
		return model.Captions{}, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user via CLI
	if err != nil {
		return nil, fmt.Errorf("read captions: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse captions %s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]string{}
	}
	return model.Captions(raw), nil
}

// lookupCaption tries the stem, then the zero-based page index.
func lookupCaption(c model.Captions, stem string, index int) (string, bool) {
	if text, ok := c.Lookup(stem); ok {
		return text, true
	}
	return c.Lookup(strconv.Itoa(index))
}
