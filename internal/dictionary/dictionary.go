// Package dictionary loads the public OMOP concept dictionary and answers
// concept lookups. The dictionary is medical terminology only — no patient
// data, no credentials — so serving it bypasses the query gateway.
package dictionary

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Concept is one dictionary row.
type Concept struct {
	ConceptID             int64  `json:"concept_id,omitempty"`
	ConceptName           string `json:"concept_name"`
	DomainID              string `json:"domain_id"`
	VocabularyID          string `json:"vocabulary_id,omitempty"`
	SourceCodeDescription string `json:"source_code_description,omitempty"`
	IsMapped              bool   `json:"is_mapped"`
}

// Dictionary holds concepts loaded once per process.
type Dictionary struct {
	mu       sync.RWMutex
	concepts []Concept
	byID     map[int64]int // concept_id -> first index (source mappings repeat IDs)
}

// Load reads the dictionary CSV from a file path or an http(s) URL.
func Load(source string) (*Dictionary, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Get(source)
		if err != nil {
			return nil, fmt.Errorf("fetch dictionary: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("fetch dictionary: unexpected status %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open dictionary: %w", err)
		}
		r = f
	}
	defer r.Close() //nolint:errcheck

	return Parse(r)
}

// Parse reads dictionary CSV content. The header row names the columns;
// unknown columns are ignored.
func Parse(r io.Reader) (*Dictionary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read dictionary header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"concept_id", "concept_name", "domain_id"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("dictionary missing column %q", required)
		}
	}

	d := &Dictionary{byID: make(map[int64]int)}
	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dictionary row: %w", err)
		}

		c := Concept{
			ConceptName:           field(record, "concept_name"),
			DomainID:              field(record, "domain_id"),
			VocabularyID:          field(record, "vocabulary_id"),
			SourceCodeDescription: field(record, "source_code_description"),
		}
		if raw := field(record, "concept_id"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				c.ConceptID = id
				c.IsMapped = true
			}
		}
		d.concepts = append(d.concepts, c)
		if c.IsMapped {
			if _, ok := d.byID[c.ConceptID]; !ok {
				d.byID[c.ConceptID] = len(d.concepts) - 1
			}
		}
	}

	return d, nil
}

// Len returns the number of loaded concept rows.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.concepts)
}

// Lookup returns the first concept mapped to conceptID, or false.
func (d *Dictionary) Lookup(conceptID int64) (Concept, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	idx, ok := d.byID[conceptID]
	if !ok {
		return Concept{}, false
	}
	return d.concepts[idx], true
}

// Search returns up to limit concepts whose name or source description
// contains term, optionally filtered by domain. Matching is
// case-insensitive substring — the dictionary is small enough that an
// index would be ceremony.
func (d *Dictionary) Search(term, domainFilter string, limit int) []Concept {
	if limit <= 0 {
		limit = 20
	}
	term = strings.ToLower(term)
	domainFilter = strings.ToLower(domainFilter)

	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []Concept
	for _, c := range d.concepts {
		if term != "" &&
			!strings.Contains(strings.ToLower(c.ConceptName), term) &&
			!strings.Contains(strings.ToLower(c.SourceCodeDescription), term) {
			continue
		}
		if domainFilter != "" && !strings.Contains(strings.ToLower(c.DomainID), domainFilter) {
			continue
		}
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out
}
