package mushaf

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// VerseRef identifies a single verse by surah and verse number (both 1-based).
type VerseRef struct {
	Surah int
	Verse int
}

// String formats the reference in the conventional "surah:verse" form.
func (v VerseRef) String() string {
	return fmt.Sprintf("%d:%d", v.Surah, v.Verse)
}

// MarshalJSON encodes the reference as the two-element array form
// [surah, verse] used by page_verses.json.
func (v VerseRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{v.Surah, v.Verse})
}

// UnmarshalJSON accepts the [surah, verse] array form.
func (v *VerseRef) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("verse ref must be a [surah, verse] pair: %w", err)
	}
	v.Surah = pair[0]
	v.Verse = pair[1]
	return nil
}

// PageVerses is the authoritative mapping from page number to the ordered
// list of verses whose end markers appear on that page.
type PageVerses map[int][]VerseRef

// Pages returns the mapped page numbers in ascending order.
func (pv PageVerses) Pages() []int {
	pages := make([]int, 0, len(pv))
	for p := range pv {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// Total returns the number of verses across all pages.
func (pv PageVerses) Total() int {
	total := 0
	for _, refs := range pv {
		total += len(refs)
	}
	return total
}

// Validate checks that every page 1..PageCount is present with a non-empty
// verse list.
func (pv PageVerses) Validate() error {
	for page := 1; page <= PageCount; page++ {
		refs, ok := pv[page]
		if !ok {
			return fmt.Errorf("page %d missing from mapping", page)
		}
		if len(refs) == 0 {
			return fmt.Errorf("page %d has no verses", page)
		}
	}
	return nil
}

// LoadPageVerses reads a page_verses.json file: an object keyed by the page
// number as a string, each value an ordered list of [surah, verse] pairs.
func LoadPageVerses(path string) (PageVerses, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page-verse mapping: %w", err)
	}

	var raw map[string][]VerseRef
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode page-verse mapping: %w", err)
	}

	pv := make(PageVerses, len(raw))
	for key, refs := range raw {
		page, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid page key %q in mapping: %w", key, err)
		}
		pv[page] = refs
	}
	return pv, nil
}

// Save writes the mapping in the same JSON shape LoadPageVerses reads.
func (pv PageVerses) Save(path string) error {
	raw := make(map[string][]VerseRef, len(pv))
	for page, refs := range pv {
		raw[strconv.Itoa(page)] = refs
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode page-verse mapping: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write page-verse mapping: %w", err)
	}
	return nil
}

// VerseCounts holds the standard Hafs verse count of each of the 114 surahs.
// It is used to expand verse ranges that cross a surah boundary within a page.
var VerseCounts = [114]int{
	7, 286, 200, 176, 120, 165, 206, 75, 129, 109,
	123, 111, 43, 52, 99, 128, 111, 110, 98, 135,
	112, 78, 118, 64, 77, 227, 93, 88, 69, 60,
	34, 30, 73, 54, 45, 83, 182, 88, 75, 85,
	54, 53, 89, 59, 37, 35, 38, 29, 18, 45,
	60, 49, 62, 55, 78, 96, 29, 22, 24, 13,
	14, 11, 11, 18, 12, 12, 30, 52, 52, 44,
	28, 28, 20, 56, 40, 31, 50, 40, 46, 42,
	29, 19, 36, 25, 22, 17, 19, 26, 30, 20,
	15, 21, 11, 8, 8, 19, 5, 8, 8, 11,
	11, 8, 3, 9, 5, 4, 7, 3, 6, 3,
	5, 4, 5, 6,
}
