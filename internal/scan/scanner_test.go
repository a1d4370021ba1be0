package scan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidy/internal/classify"
	"tidy/internal/event"
	"tidy/internal/filter"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestScan_CategoryMode(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"report.pdf":  "pdf",
		"photo.jpg":   "jpg",
		"archive.zip": "zip",
		"main.py":     "py",
	})

	plan, err := NewScanner(Config{Root: root}).Scan()
	require.NoError(t, err)

	assert.Equal(t, 4, plan.TotalFiles)
	assert.Equal(t, 4, plan.Len())
	for _, key := range []string{"documents", "images", "archives", "code"} {
		g := plan.Group(key)
		require.NotNil(t, g, key)
		assert.Len(t, g.Files, 1, key)
	}
}

func TestScan_OtherGoesToMisc(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"blob.xyz":   "x",
		".gitignore": "x",
	})

	plan, err := NewScanner(Config{Root: root}).Scan()
	require.NoError(t, err)

	g := plan.Group("misc")
	require.NotNil(t, g)
	assert.Len(t, g.Files, 2)
	assert.Equal(t, classify.Other, g.Category)
}

func TestScan_RootMissing(t *testing.T) {
	_, err := NewScanner(Config{Root: filepath.Join(t.TempDir(), "nope")}).Scan()
	assert.Error(t, err)
}

func TestScan_RootNotADirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewScanner(Config{Root: file}).Scan()
	assert.ErrorContains(t, err, "not a directory")
}

func TestScan_NonRecursiveIgnoresSubdirs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"top.txt":        "x",
		"nested/sub.txt": "x",
	})

	plan, err := NewScanner(Config{Root: root}).Scan()
	require.NoError(t, err)
	assert.Equal(t, 1, plan.TotalFiles)
}

func TestScan_MaxDepth(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"d0.txt":         "x",
		"a/d1.txt":       "x",
		"a/b/d2.txt":     "x",
		"a/b/c/d3.txt":   "x",
		"a/b/c/e/d4.txt": "x",
	})

	plan, err := NewScanner(Config{Root: root, Recursive: true, MaxDepth: 2}).Scan()
	require.NoError(t, err)
	assert.Equal(t, 3, plan.TotalFiles, "files deeper than max depth are not discovered")
}

func TestScan_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"one.pdf":    "a",
		"two.jpg":    "b",
		"sub/c.go":   "c",
		"sub/d.flac": "d",
	})

	cfg := Config{Root: root, Recursive: true}
	first, err := NewScanner(cfg).Scan()
	require.NoError(t, err)
	second, err := NewScanner(cfg).Scan()
	require.NoError(t, err)

	require.Equal(t, first.TotalFiles, second.TotalFiles)
	require.Equal(t, first.Len(), second.Len())
	for i, g := range first.Groups() {
		g2 := second.Groups()[i]
		assert.Equal(t, g.Key, g2.Key)
		require.Len(t, g2.Files, len(g.Files))
		for j := range g.Files {
			assert.Equal(t, g.Files[j].Path, g2.Files[j].Path)
		}
	}
}

func TestScan_DuplicateSkip(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.txt": "identical content",
		"b.txt": "identical content",
	})

	plan, err := NewScanner(Config{
		Root:       root,
		Duplicates: true,
		Policy:     DupSkip,
	}).Scan()
	require.NoError(t, err)

	require.Equal(t, 1, plan.TotalFiles)
	g := plan.Group("documents")
	require.NotNil(t, g)
	require.Len(t, g.Files, 1)
	assert.Equal(t, "a.txt", g.Files[0].Name, "first-encountered file stays")
}

func TestScan_DuplicateRename(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.txt": "identical content",
		"b.txt": "identical content",
	})

	plan, err := NewScanner(Config{
		Root:       root,
		Duplicates: true,
		Policy:     DupRename,
	}).Scan()
	require.NoError(t, err)

	require.Equal(t, 2, plan.TotalFiles)
	g := plan.Group("documents")
	require.Len(t, g.Files, 2)
	assert.Equal(t, "a.txt", g.Files[0].Name)
	assert.Contains(t, g.Files[1].Name, "b_dup_")
	assert.Equal(t, ".txt", filepath.Ext(g.Files[1].Name), "marker goes before the extension")
}

func TestScan_DuplicateKeepBothAndReplace(t *testing.T) {
	for _, policy := range []DuplicatePolicy{DupKeepBoth, DupReplace} {
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			"a.txt": "identical content",
			"b.txt": "identical content",
		})

		plan, err := NewScanner(Config{
			Root:       root,
			Duplicates: true,
			Policy:     policy,
		}).Scan()
		require.NoError(t, err)
		assert.Equal(t, 2, plan.TotalFiles, policy.String())
	}
}

func TestScan_DistinctContentNotDuplicates(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.txt": "content one",
		"b.txt": "content two",
	})

	plan, err := NewScanner(Config{
		Root:       root,
		Duplicates: true,
		Policy:     DupSkip,
	}).Scan()
	require.NoError(t, err)
	assert.Equal(t, 2, plan.TotalFiles)
}

func TestScan_SizeMode(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.mp4"), make([]byte, 4096), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "small.txt"), []byte("tiny"), 0o644))

	plan, err := NewScanner(Config{
		Root:          root,
		Mode:          ModeSize,
		SizeThreshold: 1024,
	}).Scan()
	require.NoError(t, err)

	large := plan.Group("large_files/videos")
	require.NotNil(t, large)
	assert.Len(t, large.Files, 1)

	normal := plan.Group("documents")
	require.NotNil(t, normal)
	assert.Len(t, normal.Files, 1)
}

func TestScan_DateMode(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "old.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	stamp := time.Date(2024, 9, 14, 12, 0, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(path, stamp, stamp))

	plan, err := NewScanner(Config{
		Root:        root,
		Mode:        ModeDate,
		Granularity: ByMonth,
	}).Scan()
	require.NoError(t, err)

	g := plan.Group("2024/09")
	require.NotNil(t, g)
	assert.Len(t, g.Files, 1)
}

func TestScan_DateMode_UndatedGroup(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "epoch.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, time.Unix(0, 0), time.Unix(0, 0)))

	plan, err := NewScanner(Config{Root: root, Mode: ModeDate, Granularity: ByYear}).Scan()
	require.NoError(t, err)

	g := plan.Group(UndatedKey)
	require.NotNil(t, g, "epoch mtime is not a trustworthy date")
	assert.Len(t, g.Files, 1)
}

func TestScan_DateSizeCombined(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "big.mp4")
	require.NoError(t, os.WriteFile(path, make([]byte, 4096), 0o644))
	stamp := time.Date(2023, 1, 2, 0, 0, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(path, stamp, stamp))

	plan, err := NewScanner(Config{
		Root:          root,
		Mode:          ModeDateSize,
		Granularity:   ByYear,
		SizeThreshold: 1024,
	}).Scan()
	require.NoError(t, err)

	g := plan.Group("2023/large_files/videos")
	require.NotNil(t, g)
	assert.Len(t, g.Files, 1)
}

func TestScan_CustomTable(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"shot.jpg": "x",
		"doc.pdf":  "x",
	})

	table := classify.NewTable([]classify.Entry{
		{Name: "Photos", Extensions: []string{".jpg"}},
	}, false)

	plan, err := NewScanner(Config{Root: root, Table: table}).Scan()
	require.NoError(t, err)

	g := plan.Group("Photos")
	require.NotNil(t, g, "custom category name is the directory key")
	assert.Len(t, g.Files, 1)
	assert.NotNil(t, plan.Group("documents"), "unmatched files fall back to built-ins")
}

func TestScan_ExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"keep.txt":         "x",
		"skip.log":         "x",
		"build/inner.txt":  "x",
		"other/normal.txt": "x",
	})

	chain := filter.NewChain()
	require.NoError(t, chain.AddExclude("*.log"))
	require.NoError(t, chain.AddExclude("build/"))

	plan, err := NewScanner(Config{Root: root, Recursive: true, Filter: chain}).Scan()
	require.NoError(t, err)
	assert.Equal(t, 2, plan.TotalFiles)
}

func TestScan_UnreadableSubdirSkipped(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, cannot test permission denied")
	}

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"ok.txt": "x"})
	forbidden := filepath.Join(root, "forbidden")
	require.NoError(t, os.Mkdir(forbidden, 0o000))
	defer os.Chmod(forbidden, 0o755)

	plan, err := NewScanner(Config{Root: root, Recursive: true}).Scan()
	require.NoError(t, err, "unreadable subdirectory is not fatal")
	assert.Equal(t, 1, plan.TotalFiles)
}

func TestScan_EmitsEvents(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "x"})

	events := make(chan event.Event, 16)
	_, err := NewScanner(Config{Root: root, Events: events}).Scan()
	require.NoError(t, err)
	close(events)

	var types []event.Type
	var total int64
	for ev := range events {
		types = append(types, ev.Type)
		if ev.Type == event.ScanComplete {
			total = ev.Total
		}
	}
	assert.Contains(t, types, event.ScanStarted)
	assert.Contains(t, types, event.FilePlanned)
	assert.Contains(t, types, event.ScanComplete)
	assert.Equal(t, int64(1), total)
}

func TestReadMetadata_MissingFile(t *testing.T) {
	m := ReadMetadata(filepath.Join(t.TempDir(), "gone"))
	assert.False(t, m.OK)
	assert.Zero(t, m.Size)
	assert.True(t, m.Modified.IsZero())
}

func TestReadMetadata_RegularFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o644))

	m := ReadMetadata(path)
	assert.True(t, m.OK)
	assert.Equal(t, int64(5), m.Size)
	assert.False(t, m.Modified.IsZero())
	assert.False(t, m.Created.IsZero())
}
