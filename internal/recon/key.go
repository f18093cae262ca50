package recon

import (
	"strings"
	"time"

	"github.com/hearthdata/housing-etl/internal/model"
)

const dateLayout = "2006-01-02"

// Key is the matching key that stands in for a sale's identity:
// normalized address, sale date, sale price. Comparable, so it can be used
// directly as a map key.
type Key struct {
	Address string // trimmed and uppercased
	Date    string // "2006-01-02"
	Price   int64
}

// KeyOf derives the matching key for a sale. The second return is false when
// any of the three key fields is missing; such records are never matched
// against, only carried through.
func KeyOf(s model.Sale) (Key, bool) {
	addr := NormalizeAddress(s.Address)
	if addr == "" || s.SaleDate.IsZero() || s.SalePrice == 0 {
		return Key{}, false
	}
	return Key{
		Address: addr,
		Date:    s.SaleDate.Format(dateLayout),
		Price:   s.SalePrice,
	}, true
}

// NormalizeAddress canonicalizes an address for matching: surrounding
// whitespace stripped, uppercased. No parsing or fuzzy matching beyond that.
func NormalizeAddress(addr string) string {
	return strings.ToUpper(strings.TrimSpace(addr))
}

// SaleKey holds the key fields of a persisted sale as stored, address
// unnormalized. The store projects range queries down to these three columns
// and deletes by exact match on the stored values.
type SaleKey struct {
	Address   string
	SaleDate  time.Time
	SalePrice int64
}

// Key normalizes the stored fields into a matching Key. The second return is
// false when a key field is missing.
func (k SaleKey) Key() (Key, bool) {
	addr := NormalizeAddress(k.Address)
	if addr == "" || k.SaleDate.IsZero() || k.SalePrice == 0 {
		return Key{}, false
	}
	return Key{
		Address: addr,
		Date:    k.SaleDate.Format(dateLayout),
		Price:   k.SalePrice,
	}, true
}
