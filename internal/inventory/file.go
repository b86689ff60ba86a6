package inventory

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"scan-dashboard/internal/models"
)

// LoadSnapshotFile reads a YAML (or JSON) snapshot document. Low-stock items
// and category totals are derived from the item list when the document
// omits them.
func LoadSnapshotFile(path string) (*models.DataSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

func ParseSnapshot(data []byte) (*models.DataSnapshot, error) {
	var s models.DataSnapshot
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	for tf := range s.ScanStats {
		if !knownTimeframe(tf) {
			return nil, fmt.Errorf("parse snapshot: unknown period %q in scan_stats", tf)
		}
	}
	s.DeriveLowStock()
	return &s, nil
}

func knownTimeframe(tf models.Timeframe) bool {
	for _, known := range models.Timeframes {
		if tf == known {
			return true
		}
	}
	return false
}
