package pipeline

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mushaftools/ayamark/internal/detection"
	"github.com/mushaftools/ayamark/internal/mushaf"
)

// singleVerseMapping maps every page to exactly one verse, enough for the
// generator's bookkeeping without real detection targets.
func singleVerseMapping() mushaf.PageVerses {
	pv := make(mushaf.PageVerses, mushaf.PageCount)
	for page := 1; page <= mushaf.PageCount; page++ {
		pv[page] = []mushaf.VerseRef{{Surah: 1, Verse: page}}
	}
	return pv
}

func TestGeneratorRunEmitsRowPerExpectedVerse(t *testing.T) {
	tpl := diskTemplate(mushaf.LayoutStandard.TemplateSize, 15)
	detector := NewPageDetector(t.TempDir(), standardTemplates(tpl), DefaultOptions())

	var processed int
	gen := NewGenerator(detector, singleVerseMapping())
	gen.Progress = func(page int) { processed++ }

	result, err := gen.Run(context.Background())
	require.NoError(t, err)

	// No scans exist, so every page is an issue, but every expected
	// verse still gets a row.
	require.Len(t, result.Rows, mushaf.PageCount)
	require.Len(t, result.Issues, mushaf.PageCount)
	require.Equal(t, mushaf.PageCount, processed)

	require.Equal(t, 1, result.Rows[0].Page)
	require.Equal(t, mushaf.PageCount, result.Rows[len(result.Rows)-1].Page)
	for _, issue := range result.Issues[:3] {
		require.Equal(t, 1, issue.Expected)
		require.Equal(t, 0, issue.Detected)
		require.Equal(t, MethodNone, issue.Method)
	}
}

func TestGeneratorRunDetectsDrawnMarkers(t *testing.T) {
	size := mushaf.LayoutStandard.TemplateSize
	half := size / 2
	tpl := diskTemplate(size, 15)

	dir := t.TempDir()
	page := whitePage(300, 400)
	drawDisk(page, 100+half, 150+half, 15)
	writePageJPEG(t, dir, 10, page)

	detector := NewPageDetector(dir, standardTemplates(tpl), DefaultOptions())
	result, err := NewGenerator(detector, singleVerseMapping()).Run(context.Background())
	require.NoError(t, err)

	// Page 10 resolved, the other 603 did not.
	require.Len(t, result.Issues, mushaf.PageCount-1)
	for _, issue := range result.Issues {
		require.NotEqual(t, 10, issue.Page)
	}

	wantX, wantY := Normalize(mushaf.LayoutStandard, detection.Point{X: 100, Y: 150})
	row := result.Rows[9]
	require.Equal(t, 10, row.Page)
	require.InDelta(t, wantX, row.X, 0.01)
	require.InDelta(t, wantY, row.Y, 0.01)
}

func TestGeneratorRunValidatesMapping(t *testing.T) {
	tpl := diskTemplate(mushaf.LayoutStandard.TemplateSize, 15)
	detector := NewPageDetector(t.TempDir(), standardTemplates(tpl), DefaultOptions())

	pv := singleVerseMapping()
	delete(pv, 42)

	_, err := NewGenerator(detector, pv).Run(context.Background())
	require.ErrorContains(t, err, "page 42")
}

func TestGeneratorRunHonorsCancellation(t *testing.T) {
	tpl := diskTemplate(mushaf.LayoutStandard.TemplateSize, 15)
	detector := NewPageDetector(t.TempDir(), standardTemplates(tpl), DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator(detector, singleVerseMapping()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnnotateDirWritesMarkedPages(t *testing.T) {
	size := mushaf.LayoutStandard.TemplateSize
	half := size / 2
	tpl := diskTemplate(size, 15)

	imagesDir := t.TempDir()
	page := whitePage(300, 400)
	drawDisk(page, 100+half, 150+half, 15)
	writePageJPEG(t, imagesDir, 10, page)

	detector := NewPageDetector(imagesDir, standardTemplates(tpl), DefaultOptions())
	gen := NewGenerator(detector, singleVerseMapping())
	gen.AnnotateDir = t.TempDir()

	_, err := gen.Run(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(gen.AnnotateDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "010.png", entries[0].Name())
}
