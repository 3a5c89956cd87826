package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// newTestStore creates an in-memory catalog for testing.
func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := NewStore(Config{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedTracks(t *testing.T, s Store, tracks []Track) {
	t.Helper()
	n, err := s.InsertTracks(context.Background(), tracks)
	if err != nil {
		t.Fatalf("seeding tracks: %v", err)
	}
	if n != len(tracks) {
		t.Fatalf("seeded %d tracks, want %d", n, len(tracks))
	}
}

var testLibrary = []Track{
	{Title: "Bohemian Rhapsody", Artist: "Queen", FilePath: "audio/bohemian_rhapsody.mp3", Lyrics: "Is this the real life?"},
	{Title: "Yesterday", Artist: "The Beatles", FilePath: "audio/yesterday.mp3", Lyrics: "Yesterday, all my troubles seemed so far away"},
	{Title: "Blinding Lights", Artist: "The Weeknd", FilePath: "audio/blinding_lights.mp3"},
	{Title: "Don't Stop Me Now", Artist: "Queen", FilePath: "audio/dont_stop_me_now.mp3"},
}

func TestNewStore(t *testing.T) {
	s := newTestStore(t)
	ss := s.(*SQLiteStore)

	for _, table := range []string{"tracks", "meta"} {
		var name string
		err := ss.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}

	var version string
	ss.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	if version != "1" {
		t.Errorf("expected schema_version '1', got %q", version)
	}
}

func TestNewStoreUnavailable(t *testing.T) {
	// A path whose parent "directory" is a regular file cannot be created.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewStore(Config{DBPath: filepath.Join(blocker, "library.db")})
	if err == nil {
		t.Fatal("expected error for unopenable database")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error not tagged with ErrUnavailable: %v", err)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	s1, err := NewStore(Config{DBPath: path})
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	seedTracks(t, s1, testLibrary)
	s1.Close()

	s2, err := NewStore(Config{DBPath: path})
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	n, err := s2.Count(context.Background())
	if err != nil {
		t.Fatalf("count after reopen: %v", err)
	}
	if n != int64(len(testLibrary)) {
		t.Errorf("count after reopen: got %d, want %d", n, len(testLibrary))
	}
}

func TestLookupBothEmpty(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s, testLibrary)

	tracks, err := s.Lookup(context.Background(), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 0 {
		t.Errorf("expected empty result for empty arguments, got %d tracks", len(tracks))
	}
}

func TestLookupByTitleSubstring(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s, testLibrary)

	tracks, err := s.Lookup(context.Background(), "Rhapsody", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	if tracks[0].Title != "Bohemian Rhapsody" || tracks[0].Artist != "Queen" {
		t.Errorf("unexpected track: %+v", tracks[0])
	}
}

func TestLookupByArtistSubstring(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s, testLibrary)

	tracks, err := s.Lookup(context.Background(), "", "Queen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
}

func TestLookupOrSemantics(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s, testLibrary)

	// Title matches nothing, artist matches two rows. OR keeps the
	// artist rows; AND would drop them.
	tracks, err := s.Lookup(context.Background(), "No Such Song", "Queen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("OR semantics: got %d tracks, want 2", len(tracks))
	}
	for _, tr := range tracks {
		if tr.Artist != "Queen" {
			t.Errorf("unexpected artist %q in OR result", tr.Artist)
		}
	}
}

func TestLookupCaseSensitive(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s, testLibrary)

	tracks, err := s.Lookup(context.Background(), "yesterday", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 0 {
		t.Errorf("lowercase fragment matched %d tracks, want 0 (case-sensitive)", len(tracks))
	}

	tracks, err = s.Lookup(context.Background(), "Yesterday", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 1 {
		t.Errorf("exact-case fragment matched %d tracks, want 1", len(tracks))
	}
}

func TestLookupWildcardsUnescaped(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s, testLibrary)

	// % in a fragment behaves as a LIKE wildcard; fragments are not escaped.
	tracks, err := s.Lookup(context.Background(), "Bohemian%Rhapsody", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 1 {
		t.Errorf("wildcard fragment matched %d tracks, want 1", len(tracks))
	}
}

func TestLookupStorageOrder(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s, []Track{
		{Title: "Track C", Artist: "Order Test", FilePath: "c.mp3"},
		{Title: "Track A", Artist: "Order Test", FilePath: "a.mp3"},
		{Title: "Track B", Artist: "Order Test", FilePath: "b.mp3"},
	})

	tracks, err := s.Lookup(context.Background(), "", "Order Test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Track C", "Track A", "Track B"}
	if len(tracks) != len(want) {
		t.Fatalf("got %d tracks, want %d", len(tracks), len(want))
	}
	for i, w := range want {
		if tracks[i].Title != w {
			t.Errorf("position %d: got %q, want %q (insertion order)", i, tracks[i].Title, w)
		}
	}
}

func TestLookupDuplicatePairs(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s, []Track{
		{Title: "Hurt", Artist: "Nine Inch Nails", FilePath: "hurt_v1.mp3"},
		{Title: "Hurt", Artist: "Nine Inch Nails", FilePath: "hurt_v2.mp3"},
	})

	tracks, err := s.Lookup(context.Background(), "Hurt", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 2 {
		t.Errorf("duplicate pairs: got %d tracks, want 2", len(tracks))
	}
}

func TestNullLyricsScanToEmpty(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s, testLibrary)

	// "Blinding Lights" was inserted without lyrics; the column must be
	// NULL on disk and "" after scan.
	ss := s.(*SQLiteStore)
	var isNull int
	err := ss.db.QueryRow(
		"SELECT COUNT(*) FROM tracks WHERE title = 'Blinding Lights' AND lyrics IS NULL",
	).Scan(&isNull)
	if err != nil {
		t.Fatalf("checking NULL lyrics: %v", err)
	}
	if isNull != 1 {
		t.Error("empty lyrics not stored as NULL")
	}

	tracks, err := s.Lookup(context.Background(), "Blinding", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	if tracks[0].Lyrics != "" {
		t.Errorf("NULL lyrics scanned as %q, want empty", tracks[0].Lyrics)
	}
}

func TestInsertTracksEmpty(t *testing.T) {
	s := newTestStore(t)
	n, err := s.InsertTracks(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Errorf("got %d inserts, want 0", n)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s, testLibrary)

	st, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.TrackCount != 4 {
		t.Errorf("TrackCount: got %d, want 4", st.TrackCount)
	}
	if st.ArtistCount != 3 {
		t.Errorf("ArtistCount: got %d, want 3", st.ArtistCount)
	}
	if st.WithLyrics != 2 {
		t.Errorf("WithLyrics: got %d, want 2", st.WithLyrics)
	}
}

func TestArtistCounts(t *testing.T) {
	s := newTestStore(t)
	seedTracks(t, s, testLibrary)

	counts, err := s.(*SQLiteStore).ArtistCounts(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []ArtistCount{
		{Artist: "Queen", TrackCount: 2},
		{Artist: "The Beatles", TrackCount: 1},
		{Artist: "The Weeknd", TrackCount: 1},
	}
	if len(counts) != len(want) {
		t.Fatalf("got %d artists, want %d: %+v", len(counts), len(want), counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %+v, want %+v", i, counts[i], want[i])
		}
	}

	one, err := s.(*SQLiteStore).ArtistCounts(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(one) != 1 || one[0].Artist != "Queen" {
		t.Errorf("limit 1: got %+v, want Queen only", one)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	got := ExpandPath("~/.cratedig/library.db")
	want := filepath.Join(home, ".cratedig/library.db")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if ExpandPath("/abs/path.db") != "/abs/path.db" {
		t.Error("absolute path should pass through")
	}
	if ExpandPath(":memory:") != ":memory:" {
		t.Error(":memory: should pass through")
	}
}
