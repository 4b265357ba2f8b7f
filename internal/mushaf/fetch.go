package mushaf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultLayoutBaseURL is the mushaf-layout dataset location: one JSON
// document per page describing the verse ranges on each of its lines.
const DefaultLayoutBaseURL = "https://raw.githubusercontent.com/zonetecde/mushaf-layout/main/mushaf"

// Fetcher downloads the authoritative page-verse mapping from the
// mushaf-layout dataset.
type Fetcher struct {
	// BaseURL is the directory URL holding page-NNN.json documents.
	// Defaults to DefaultLayoutBaseURL when empty.
	BaseURL string

	// Client is the HTTP client used for requests. Defaults to a client
	// with a 10 second timeout when nil.
	Client *http.Client

	// Progress, when non-nil, is called after each page is fetched.
	Progress func(page int)
}

// pageDocument mirrors the mushaf-layout page JSON schema. Only the verse
// ranges are consumed; line type and centering hints are ignored.
type pageDocument struct {
	Lines []struct {
		VerseRange string `json:"verseRange"`
	} `json:"lines"`
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (f *Fetcher) baseURL() string {
	if f.BaseURL != "" {
		return strings.TrimRight(f.BaseURL, "/")
	}
	return DefaultLayoutBaseURL
}

// FetchAll downloads the verse list of every page and returns the assembled
// mapping. The first page that fails aborts the whole fetch: a partial
// mapping would silently shift verse assignments downstream.
func (f *Fetcher) FetchAll(ctx context.Context) (PageVerses, error) {
	pv := make(PageVerses, PageCount)

	for page := 1; page <= PageCount; page++ {
		refs, err := f.FetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		pv[page] = refs

		if f.Progress != nil {
			f.Progress(page)
		}
	}

	return pv, nil
}

// FetchPage downloads and expands the ordered verse list of a single page.
func (f *Fetcher) FetchPage(ctx context.Context, page int) ([]VerseRef, error) {
	url := fmt.Sprintf("%s/page-%03d.json", f.baseURL(), page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s fetching %s", resp.Status, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var doc pageDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode page document: %w", err)
	}

	verses := make([]VerseRef, 0, 16)
	for _, line := range doc.Lines {
		if line.VerseRange == "" {
			continue
		}
		expanded, err := ExpandVerseRange(line.VerseRange)
		if err != nil {
			return nil, err
		}
		verses = append(verses, expanded...)
	}

	return dedupeVerses(verses), nil
}

// ExpandVerseRange expands a "s:v-s:v" range string into the individual verse
// references it covers, in reading order. Ranges that cross a surah boundary
// run to the end of the first surah (per VerseCounts) and resume at verse 1
// of the second.
func ExpandVerseRange(vr string) ([]VerseRef, error) {
	start, end, ok := strings.Cut(vr, "-")
	if !ok {
		return nil, fmt.Errorf("invalid verse range %q", vr)
	}

	first, err := parseVerseRef(start)
	if err != nil {
		return nil, fmt.Errorf("invalid verse range %q: %w", vr, err)
	}
	last, err := parseVerseRef(end)
	if err != nil {
		return nil, fmt.Errorf("invalid verse range %q: %w", vr, err)
	}

	if first.Surah == last.Surah {
		if last.Verse < first.Verse {
			return nil, fmt.Errorf("invalid verse range %q: descending", vr)
		}
		refs := make([]VerseRef, 0, last.Verse-first.Verse+1)
		for v := first.Verse; v <= last.Verse; v++ {
			refs = append(refs, VerseRef{Surah: first.Surah, Verse: v})
		}
		return refs, nil
	}

	if first.Surah < 1 || first.Surah > len(VerseCounts) {
		return nil, fmt.Errorf("invalid verse range %q: surah %d out of range", vr, first.Surah)
	}

	refs := make([]VerseRef, 0, 16)
	for v := first.Verse; v <= VerseCounts[first.Surah-1]; v++ {
		refs = append(refs, VerseRef{Surah: first.Surah, Verse: v})
	}
	for v := 1; v <= last.Verse; v++ {
		refs = append(refs, VerseRef{Surah: last.Surah, Verse: v})
	}
	return refs, nil
}

func parseVerseRef(s string) (VerseRef, error) {
	surahPart, versePart, ok := strings.Cut(s, ":")
	if !ok {
		return VerseRef{}, fmt.Errorf("missing ':' in %q", s)
	}
	surah, err := strconv.Atoi(surahPart)
	if err != nil {
		return VerseRef{}, fmt.Errorf("bad surah in %q: %w", s, err)
	}
	verse, err := strconv.Atoi(versePart)
	if err != nil {
		return VerseRef{}, fmt.Errorf("bad verse in %q: %w", s, err)
	}
	return VerseRef{Surah: surah, Verse: verse}, nil
}

// dedupeVerses removes duplicates while preserving first-seen order. A verse
// spanning several lines appears in each line's range but ends only once.
func dedupeVerses(refs []VerseRef) []VerseRef {
	seen := make(map[VerseRef]struct{}, len(refs))
	unique := make([]VerseRef, 0, len(refs))
	for _, r := range refs {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}
