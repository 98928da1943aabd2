package indicators

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"

	"media-forensics/backend/internal/match"
	"media-forensics/backend/internal/scoring"
	"media-forensics/backend/internal/store"
)

func TestParseCSV(t *testing.T) {
	input := "kind,value\n" +
		"tld,.ZIP\n" +
		"# operator notes\n" +
		"shortener, rb.gy\n" +
		"brand,acme\n" +
		"phrase\n" +
		"keyword,\n" +
		"phrase,Wire the funds\n"

	entries, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []Entry{
		{Kind: scoring.KindTLD, Value: ".ZIP"},
		{Kind: scoring.KindShortener, Value: "rb.gy"},
		{Kind: scoring.KindPhrase, Value: "Wire the funds"},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries got %d: %+v", len(want), len(entries), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d: expected %+v got %+v", i, want[i], entries[i])
		}
	}
}

func TestServiceAddPublishesNewSnapshot(t *testing.T) {
	svc := NewService(nil)
	before := svc.Scorer()

	added, err := svc.Add([]Entry{
		{Kind: "TLD", Value: ".zip"},
		{Kind: scoring.KindTLD, Value: "zip"},
		{Kind: scoring.KindKeyword, Value: "  "},
	}, "test")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 entry accepted got %d", added)
	}
	if svc.Scorer() == before {
		t.Fatal("expected a new scorer after adding entries")
	}

	profile := match.ProfileURL("https://invoice.zip")
	if got := before.Score(scoring.LinkSignals{Profile: profile, Fetched: true}); got.Points != 0 {
		t.Fatalf("old snapshot must be unchanged, got %d points", got.Points)
	}
	if got := svc.Scorer().Score(scoring.LinkSignals{Profile: profile, Fetched: true}); got.Points != 25 {
		t.Fatalf("expected low-reputation tld to fire, got %d points", got.Points)
	}
}

func TestServiceRejectsUnknownKind(t *testing.T) {
	if _, err := NewService(nil).Add([]Entry{{Kind: "brand", Value: "acme"}}, "test"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestServicePersistsAndReloads(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "forensics.db"), true)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	csvPath := filepath.Join(t.TempDir(), "indicators.csv")
	if err := os.WriteFile(csvPath, []byte("kind,value\nshortener,rb.gy\nphrase,Act Now\n"), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	if imported, err := NewService(db).LoadFromCSV(csvPath); err != nil || imported != 2 {
		t.Fatalf("expected 2 imported got %d err %v", imported, err)
	}

	reloaded := NewService(db)
	count, err := reloaded.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 stored entries got %d", count)
	}
	snapshot := reloaded.Snapshot()
	if got := snapshot.Counts()[scoring.KindShortener]; got != 7 {
		t.Fatalf("expected defaults plus one shortener, got %d", got)
	}
	phrases := reloaded.Scorer().MatchedPhrases("ACT NOW before it expires")
	if len(phrases) != 1 || phrases[0] != "act now" {
		t.Fatalf("expected stored phrase to match, got %v", phrases)
	}
}

func TestServiceRemove(t *testing.T) {
	if err := NewService(nil).Remove("tld", "zip"); !errors.Is(err, ErrNoStore) {
		t.Fatalf("expected ErrNoStore got %v", err)
	}

	db, err := store.Open(filepath.Join(t.TempDir(), "forensics.db"), true)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	svc := NewService(db)
	if _, err := svc.Add([]Entry{{Kind: scoring.KindTLD, Value: "zip"}}, "test"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Remove("tld", ".ZIP"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	profile := match.ProfileURL("https://invoice.zip")
	if got := svc.Scorer().Score(scoring.LinkSignals{Profile: profile, Fetched: true}); got.Points != 0 {
		t.Fatalf("expected removed tld to stop firing, got %d points", got.Points)
	}
	if err := svc.Remove("tld", "zip"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound got %v", err)
	}
}

func TestLoadFromCSVMissingFile(t *testing.T) {
	if _, err := NewService(nil).LoadFromCSV(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
