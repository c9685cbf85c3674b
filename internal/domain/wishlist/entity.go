package wishlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/sithaphal-storefront/internal/domain/catalog"
)

// SchemaVersion is written into every persisted wishlist
const SchemaVersion = 1

// ErrNotInWishlist is returned when moving a product the wishlist does not hold
var ErrNotInWishlist = errors.New("item not found in wishlist")

// View is the wishlist resolved against the catalog
type View struct {
	Items     []catalog.Product `json:"items"`
	Count     int               `json:"count"`
	Orphans   []uint            `json:"orphans,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ToggleResult reports the membership after a toggle
type ToggleResult struct {
	ProductID uint  `json:"product_id"`
	Added     bool  `json:"added"`
	View      *View `json:"wishlist"`
}

type snapshot struct {
	Version    int       `json:"version"`
	ProductIDs []uint    `json:"product_ids"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func encode(ids []uint, at time.Time) (string, error) {
	if ids == nil {
		ids = []uint{}
	}
	data, err := json.Marshal(snapshot{Version: SchemaVersion, ProductIDs: ids, UpdatedAt: at})
	if err != nil {
		return "", fmt.Errorf("failed to encode wishlist: %w", err)
	}
	return string(data), nil
}

// decode accepts the versioned object or a bare array of product ids
func decode(raw string) ([]uint, time.Time, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "" || raw == "null":
		return nil, time.Time{}, nil
	case strings.HasPrefix(raw, "["):
		var ids []uint
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return nil, time.Time{}, fmt.Errorf("legacy wishlist: %w", err)
		}
		return dedupe(ids), time.Time{}, nil
	case strings.HasPrefix(raw, "{"):
		var snap snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			return nil, time.Time{}, fmt.Errorf("wishlist snapshot: %w", err)
		}
		if snap.Version != SchemaVersion {
			return nil, time.Time{}, fmt.Errorf("unknown wishlist schema version %d", snap.Version)
		}
		return dedupe(snap.ProductIDs), snap.UpdatedAt, nil
	default:
		return nil, time.Time{}, errors.New("unrecognised wishlist blob")
	}
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
