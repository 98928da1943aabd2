package store

import (
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "forensics.db"), true)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpsertIndicatorsDeduplicates(t *testing.T) {
	db := openTestDB(t)

	first := []Indicator{
		{Kind: "tld", Value: "zip", Source: "seed.csv"},
		{Kind: "shortener", Value: "rb.gy", Source: "seed.csv"},
	}
	if err := db.UpsertIndicators(first); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := db.UpsertIndicators([]Indicator{{Kind: "tld", Value: "zip", Source: "api"}}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	count, err := db.CountIndicators()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 indicators got %d", count)
	}

	rows, total, err := db.ListIndicators(IndicatorQuery{Kind: "tld"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected one tld row got %d/%d", len(rows), total)
	}
	if rows[0].Source != "api" {
		t.Fatalf("expected source refreshed to api got %s", rows[0].Source)
	}
}

func TestListIndicatorsOrderingAndPaging(t *testing.T) {
	db := openTestDB(t)
	if err := db.UpsertIndicators([]Indicator{
		{Kind: "keyword", Value: "wallet"},
		{Kind: "keyword", Value: "bank"},
		{Kind: "tld", Value: "zip"},
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, total, err := db.ListIndicators(IndicatorQuery{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(rows) != 2 {
		t.Fatalf("expected 2 of 3 rows got %d of %d", len(rows), total)
	}
	if rows[0].Value != "bank" || rows[1].Value != "wallet" {
		t.Fatalf("unexpected order %s, %s", rows[0].Value, rows[1].Value)
	}
}

func TestDeleteIndicator(t *testing.T) {
	db := openTestDB(t)
	if err := db.UpsertIndicators([]Indicator{{Kind: "phrase", Value: "act now"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := db.DeleteIndicator("phrase", "act now"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.DeleteIndicator("phrase", "act now"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}
