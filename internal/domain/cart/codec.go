package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SchemaVersion is written into every persisted cart
const SchemaVersion = 1

var (
	errEmptyBlob       = errors.New("empty cart blob")
	errUnknownVersion  = errors.New("unknown cart schema version")
	errUnrecognisedRaw = errors.New("unrecognised cart blob")
)

// snapshot is the persisted shape of a cart
type snapshot struct {
	Version   int       `json:"version"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// legacyLine is a denormalised item written by older storefront pages
type legacyLine struct {
	ID       *uint `json:"id"`
	Quantity int   `json:"quantity"`
}

func encode(lines []Line, at time.Time) (string, error) {
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(snapshot{Version: SchemaVersion, Lines: lines, UpdatedAt: at})
	if err != nil {
		return "", fmt.Errorf("failed to encode cart: %w", err)
	}
	return string(data), nil
}

// decode parses a persisted blob into normalised lines.
// Version-less JSON arrays are read as the legacy denormalised format.
func decode(raw string) ([]Line, time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, time.Time{}, errEmptyBlob
	}

	if strings.HasPrefix(raw, "[") {
		var legacy []legacyLine
		if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
			return nil, time.Time{}, fmt.Errorf("legacy cart: %w", err)
		}
		lines := make([]Line, 0, len(legacy))
		for _, l := range legacy {
			if l.ID == nil {
				continue
			}
			lines = append(lines, Line{ProductID: *l.ID, Quantity: l.Quantity})
		}
		return normalise(lines), time.Time{}, nil
	}

	if !strings.HasPrefix(raw, "{") {
		return nil, time.Time{}, errUnrecognisedRaw
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, time.Time{}, fmt.Errorf("cart snapshot: %w", err)
	}
	if snap.Version != SchemaVersion {
		return nil, time.Time{}, fmt.Errorf("%w: %d", errUnknownVersion, snap.Version)
	}
	return normalise(snap.Lines), snap.UpdatedAt, nil
}

// normalise drops non-positive quantities, clamps the rest to MaxLineQuantity
// and merges duplicate products, keeping the position of the first occurrence
func normalise(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	pos := make(map[uint]int, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		l.Quantity = min(l.Quantity, MaxLineQuantity)
		if i, ok := pos[l.ProductID]; ok {
			out[i].Quantity = addQuantity(out[i].Quantity, l.Quantity)
			continue
		}
		pos[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}
