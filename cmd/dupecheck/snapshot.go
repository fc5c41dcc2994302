package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cartwise/backend/internal/domain"
	"gopkg.in/yaml.v3"
)

// snapshotFile is the on-disk form of a user's lists
type snapshotFile struct {
	CurrentListID string                     `json:"currentListId" yaml:"currentListId"`
	Settings      *domain.ComparisonSettings `json:"settings,omitempty" yaml:"settings,omitempty"`
	Lists         []domain.ListSnapshot      `json:"lists" yaml:"lists"`
}

// loadSnapshot reads a .json, .yaml or .yml snapshot
func loadSnapshot(path string) (*snapshotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap snapshotFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &snap)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &snap)
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q (want .json, .yaml or .yml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i := range snap.Lists {
		snap.Lists[i].AdoptProducts()
	}
	return &snap, nil
}
