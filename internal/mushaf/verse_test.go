package mushaf

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLayoutForPage(t *testing.T) {
	require.Equal(t, LayoutOpening, LayoutForPage(1))
	require.Equal(t, LayoutOpening, LayoutForPage(2))
	require.Equal(t, LayoutStandard, LayoutForPage(3))
	require.Equal(t, LayoutStandard, LayoutForPage(604))
}

func TestLayoutHalfTemplate(t *testing.T) {
	require.Equal(t, 26, LayoutOpening.HalfTemplate())
	require.Equal(t, 21, LayoutStandard.HalfTemplate())
}

func TestVerseCountsTotal(t *testing.T) {
	total := 0
	for _, n := range VerseCounts {
		total += n
	}
	require.Equal(t, TotalVerses, total)
}

func TestVerseRefString(t *testing.T) {
	require.Equal(t, "2:255", VerseRef{Surah: 2, Verse: 255}.String())
}

func TestPageVersesSaveLoadRoundTrip(t *testing.T) {
	pv := PageVerses{
		1: {{Surah: 1, Verse: 1}, {Surah: 1, Verse: 2}},
		2: {{Surah: 1, Verse: 3}},
	}

	path := filepath.Join(t.TempDir(), "page_verses.json")
	require.NoError(t, pv.Save(path))

	loaded, err := LoadPageVerses(path)
	require.NoError(t, err)
	require.Equal(t, pv, loaded)
	require.Equal(t, 3, loaded.Total())
	require.Equal(t, []int{1, 2}, loaded.Pages())
}

func TestLoadPageVersesRejectsBadKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	writeFile(t, path, `{"one": [[1, 1]]}`)

	_, err := LoadPageVerses(path)
	require.Error(t, err)
}

func TestLoadPageVersesRejectsBadPair(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	writeFile(t, path, `{"1": [[1, 1, 7]]}`)

	_, err := LoadPageVerses(path)
	require.Error(t, err)
}

func TestPageVersesValidate(t *testing.T) {
	pv := make(PageVerses, PageCount)
	for page := 1; page <= PageCount; page++ {
		pv[page] = []VerseRef{{Surah: 1, Verse: 1}}
	}
	require.NoError(t, pv.Validate())

	delete(pv, 300)
	require.ErrorContains(t, pv.Validate(), "page 300")

	pv[300] = nil
	require.ErrorContains(t, pv.Validate(), "no verses")
}
