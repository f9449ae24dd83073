package tickers

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// regionPrefix tags table keys that disambiguate non-domestic issuers.
const regionPrefix = "region:"

// fuzzyMinScore rejects fuzzy hits too weak to trust as a resolution.
const fuzzyMinScore = 0.2

type indexedName struct {
	Name string `json:"name"`
}

// Directory resolves company names to tickers. Exact table lookups come
// first; near-miss spellings fall through to an in-memory fuzzy index.
// Safe for concurrent use.
type Directory struct {
	mu    sync.RWMutex
	table map[string]string
	index bleve.Index
}

// NewDirectory builds a directory over the builtin name table.
func NewDirectory() (*Directory, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating name index: %w", err)
	}
	d := &Directory{
		table: make(map[string]string, len(builtin)),
		index: idx,
	}
	if err := d.merge(builtin); err != nil {
		return nil, err
	}
	return d, nil
}

// Lookup resolves a company name to a ticker. Resolution order: exact table
// key, unique region-tagged entry with a matching bare name, then fuzzy
// match. Inputs that already look like table values pass through unchanged.
func (d *Directory) Lookup(name string) (string, bool) {
	key := Normalize(name)
	if key == "" {
		return "", false
	}

	d.mu.RLock()
	if ticker, ok := d.table[key]; ok {
		d.mu.RUnlock()
		return ticker, true
	}
	ticker, count := d.regionMatch(key)
	d.mu.RUnlock()
	if count == 1 {
		return ticker, true
	}
	if count > 1 {
		// Ambiguous across regions; refuse rather than guess a listing.
		return "", false
	}
	return d.fuzzy(key)
}

// LookupRegion resolves a region-tagged entry, e.g. ("jp", "toyota").
func (d *Directory) LookupRegion(country, name string) (string, bool) {
	key := regionPrefix + strings.ToLower(strings.TrimSpace(country)) + ":" + Normalize(name)
	d.mu.RLock()
	defer d.mu.RUnlock()
	ticker, ok := d.table[key]
	return ticker, ok
}

// Merge adds or replaces entries. Keys are normalized; region-tagged keys
// keep their prefix. Used for operator override files.
func (d *Directory) Merge(entries map[string]string) error {
	normalized := make(map[string]string, len(entries))
	for k, v := range entries {
		if strings.HasPrefix(strings.ToLower(k), regionPrefix) {
			parts := strings.SplitN(strings.ToLower(k), ":", 3)
			if len(parts) != 3 {
				continue
			}
			normalized[regionPrefix+parts[1]+":"+Normalize(parts[2])] = strings.ToUpper(strings.TrimSpace(v))
			continue
		}
		normalized[Normalize(k)] = strings.ToUpper(strings.TrimSpace(v))
	}
	return d.merge(normalized)
}

func (d *Directory) merge(entries map[string]string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, ticker := range entries {
		if key == "" || ticker == "" {
			continue
		}
		d.table[key] = ticker
		if err := d.index.Index(key, indexedName{Name: bareName(key)}); err != nil {
			return fmt.Errorf("indexing %q: %w", key, err)
		}
	}
	return nil
}

// regionMatch counts region-tagged entries whose bare name equals key and
// returns the ticker when the match is unique. Caller holds mu.
func (d *Directory) regionMatch(key string) (string, int) {
	var ticker string
	count := 0
	for k, v := range d.table {
		if strings.HasPrefix(k, regionPrefix) && bareName(k) == key {
			ticker = v
			count++
		}
	}
	return ticker, count
}

// fuzzy resolves near-miss spellings through the bleve index.
func (d *Directory) fuzzy(key string) (string, bool) {
	q := bleve.NewMatchQuery(key)
	q.SetField("name")
	q.SetFuzziness(1)
	req := bleve.NewSearchRequest(q)
	req.Size = 1

	d.mu.RLock()
	res, err := d.index.Search(req)
	if err != nil || len(res.Hits) == 0 || res.Hits[0].Score < fuzzyMinScore {
		d.mu.RUnlock()
		return "", false
	}
	ticker, ok := d.table[res.Hits[0].ID]
	d.mu.RUnlock()
	return ticker, ok
}

// legalSuffixes are stripped from the end of names before lookup.
var legalSuffixes = []string{" inc.", " inc", " corp.", " corp", " corporation", " co.", " ltd.", " ltd", " plc", " company"}

// Normalize lowercases, trims and strips common legal suffixes from a
// company name so it can serve as a table key.
func Normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.Join(strings.Fields(key), " ")
	for _, suffix := range legalSuffixes {
		key = strings.TrimSuffix(key, suffix)
	}
	return strings.TrimSpace(key)
}

func bareName(key string) string {
	if strings.HasPrefix(key, regionPrefix) {
		if i := strings.LastIndex(key, ":"); i >= 0 {
			return key[i+1:]
		}
	}
	return key
}
