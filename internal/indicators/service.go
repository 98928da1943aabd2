package indicators

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"media-forensics/backend/internal/scoring"
	"media-forensics/backend/internal/store"
)

// ErrNoStore is returned by operations that need the indicator database when none is configured.
var ErrNoStore = errors.New("indicator store not configured")

// Entry is one operator-supplied indicator.
type Entry struct {
	Kind  scoring.IndicatorKind `json:"kind" binding:"required,oneof=tld shortener keyword phrase"`
	Value string                `json:"value" binding:"required,max=255"`
}

// Service keeps the effective indicator snapshot: the compiled defaults merged with every stored
// entry. The snapshot is replaced atomically so in-flight link analyses never observe a partial set.
type Service struct {
	db      *store.Database
	current atomic.Pointer[scoring.LinkScorer]
	writeMu sync.Mutex
}

// NewService constructs a service seeded with the default indicators. db may be nil, in which case
// additions live only in memory.
func NewService(db *store.Database) *Service {
	s := &Service{db: db}
	s.current.Store(scoring.NewLinkScorer(scoring.DefaultIndicators()))
	return s
}

// Scorer returns the link scorer for the current snapshot.
func (s *Service) Scorer() *scoring.LinkScorer {
	return s.current.Load()
}

// Snapshot returns the current effective indicators.
func (s *Service) Snapshot() scoring.Indicators {
	return s.Scorer().Indicators()
}

// Load rebuilds the snapshot from the defaults and the stored entries.
func (s *Service) Load() (int, error) {
	if s.db == nil {
		return 0, nil
	}
	rows, _, err := s.db.ListIndicators(store.IndicatorQuery{})
	if err != nil {
		return 0, fmt.Errorf("list indicators: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		kind, err := scoring.ParseIndicatorKind(row.Kind)
		if err != nil {
			logrus.WithField("kind", row.Kind).Warn("skipping stored indicator with unknown kind")
			continue
		}
		entries = append(entries, Entry{Kind: kind, Value: row.Value})
	}

	s.writeMu.Lock()
	s.current.Store(scoring.NewLinkScorer(merge(scoring.DefaultIndicators(), entries)))
	s.writeMu.Unlock()
	return len(entries), nil
}

// Add normalizes, persists and publishes new entries. It returns the number of entries accepted.
func (s *Service) Add(entries []Entry, source string) (int, error) {
	cleaned := make([]Entry, 0, len(entries))
	seen := make(map[Entry]struct{}, len(entries))
	for _, entry := range entries {
		kind, err := scoring.ParseIndicatorKind(string(entry.Kind))
		if err != nil {
			return 0, err
		}
		entry.Kind = kind
		entry.Value = scoring.NormalizeIndicator(kind, entry.Value)
		if entry.Value == "" {
			continue
		}
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		cleaned = append(cleaned, entry)
	}
	if len(cleaned) == 0 {
		return 0, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.db != nil {
		rows := make([]store.Indicator, 0, len(cleaned))
		for _, entry := range cleaned {
			rows = append(rows, store.Indicator{Kind: string(entry.Kind), Value: entry.Value, Source: source})
		}
		if err := s.db.UpsertIndicators(rows); err != nil {
			return 0, err
		}
	}

	s.current.Store(scoring.NewLinkScorer(merge(s.Snapshot(), cleaned)))
	return len(cleaned), nil
}

// Remove deletes a stored entry and rebuilds the snapshot. Built-in defaults cannot be removed.
func (s *Service) Remove(kind, value string) error {
	if s.db == nil {
		return ErrNoStore
	}
	parsed, err := scoring.ParseIndicatorKind(kind)
	if err != nil {
		return err
	}
	if err := s.db.DeleteIndicator(string(parsed), scoring.NormalizeIndicator(parsed, value)); err != nil {
		return err
	}
	_, err = s.Load()
	return err
}

// LoadFromCSV imports kind,value rows from the file at path.
func (s *Service) LoadFromCSV(path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, errors.New("indicator csv path is empty")
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open indicator file: %w", err)
	}
	defer file.Close()

	entries, err := ParseCSV(bufio.NewReader(file))
	if err != nil {
		return 0, err
	}
	return s.Add(entries, path)
}

// ParseCSV reads kind,value rows. A header row and rows with unknown kinds are skipped.
func ParseCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var entries []Entry
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read indicator row: %w", err)
		}
		line++
		if len(row) < 2 {
			continue
		}
		rawKind := strings.TrimPrefix(strings.TrimSpace(row[0]), "\ufeff")
		if line == 1 && strings.EqualFold(rawKind, "kind") {
			continue
		}
		kind, err := scoring.ParseIndicatorKind(rawKind)
		if err != nil {
			logrus.WithField("row", line).WithError(err).Debug("skipping indicator row")
			continue
		}
		value := strings.TrimSpace(row[1])
		if value == "" {
			continue
		}
		entries = append(entries, Entry{Kind: kind, Value: value})
	}
	return entries, nil
}

func merge(base scoring.Indicators, entries []Entry) scoring.Indicators {
	grouped := make(map[scoring.IndicatorKind][]string)
	for _, entry := range entries {
		grouped[entry.Kind] = append(grouped[entry.Kind], entry.Value)
	}
	for _, kind := range scoring.IndicatorKinds {
		if values := grouped[kind]; len(values) > 0 {
			base = base.Merge(kind, values...)
		}
	}
	return base
}
