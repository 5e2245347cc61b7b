package hazardlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-saferoute/internal/models"
)

var ErrMissingColumn = errors.New("hazard log is missing a required column")

// Accepted spellings of the date column. Rows matching none of them keep a
// zero date and are left out of every since-bounded query.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"2 January 2006",
	"January 2, 2006",
}

// Store is an immutable, in-memory snapshot of the hazard log.
type Store struct {
	events    []models.HazardEvent
	available bool
	skipped   int
	modTime   time.Time
}

// Empty returns a store that reports itself unavailable.
func Empty() *Store {
	return &Store{}
}

// NewStore builds an available store from already parsed events.
func NewStore(events []models.HazardEvent) *Store {
	return &Store{
		events:    events,
		available: true,
	}
}

// Load reads the hazard log at path. A missing file is not an error: the
// returned store is empty and unavailable. Any other failure also yields an
// empty store alongside the error so callers can keep serving.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("hazard log not found, risk analysis will be limited", "path", path)
		return Empty(), nil
	}
	if err != nil {
		return Empty(), fmt.Errorf("error opening hazard log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Empty(), fmt.Errorf("error reading hazard log info: %w", err)
	}

	s, err := Parse(f)
	if err != nil {
		return Empty(), err
	}
	s.modTime = info.ModTime()

	slog.Info("hazard log loaded", "path", path, "events", len(s.events), "skipped", s.skipped)
	return s, nil
}

// Parse reads CSV hazard records. Malformed rows are skipped and counted.
func Parse(r io.Reader) (*Store, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading hazard log header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[normalizeColumn(h)] = i
	}
	if _, ok := cols["district"]; !ok {
		return nil, fmt.Errorf("%w: district", ErrMissingColumn)
	}

	s := &Store{available: true}
	line := 1
	for {
		rec, err := cr.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				slog.Debug("skipping malformed hazard row", "line", line, "error", err)
				s.skipped++
				continue
			}
			return nil, fmt.Errorf("error reading hazard log: %w", err)
		}
		if len(rec) > len(header) {
			slog.Debug("skipping hazard row with extra fields", "line", line, "fields", len(rec))
			s.skipped++
			continue
		}

		ev, ok := parseRow(rec, cols)
		if !ok {
			s.skipped++
			continue
		}
		s.events = append(s.events, ev)
	}

	return s, nil
}

func parseRow(rec []string, cols map[string]int) (models.HazardEvent, bool) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	ev := models.HazardEvent{
		District:        field("district"),
		Place:           field("place"),
		Date:            parseDate(field("date")),
		TemperatureC:    parseFloat(field("temperature_c")),
		RainfallMM:      parseFloat(field("rainfall_mm")),
		HumidityPercent: parseFloat(field("humidity_percent")),
		DiseaseCases:    parseCount(field("disease_cases")),
		DisasterEvent:   field("disaster_event"),
		Description:     field("description"),
	}
	if ev.District == "" {
		return models.HazardEvent{}, false
	}
	return ev, true
}

func normalizeColumn(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

func parseDate(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseFloat(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}

func parseCount(v string) *int {
	f := parseFloat(v)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

// Available reports whether the log was loaded and holds at least one event.
func (s *Store) Available() bool {
	return s != nil && s.available && len(s.events) > 0
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.events)
}

// Skipped is the number of rows dropped while parsing.
func (s *Store) Skipped() int {
	if s == nil {
		return 0
	}
	return s.skipped
}

func (s *Store) ModTime() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.modTime
}

// Events yields events for district, optionally narrowed to place, in log
// order. Matching is case-insensitive. A non-zero since keeps only events
// dated strictly after it, which drops undated rows.
func (s *Store) Events(district, place string, since time.Time) iter.Seq[models.HazardEvent] {
	return func(yield func(models.HazardEvent) bool) {
		if s == nil {
			return
		}
		for _, ev := range s.events {
			if !strings.EqualFold(ev.District, district) {
				continue
			}
			if place != "" && !strings.EqualFold(ev.Place, place) {
				continue
			}
			if !since.IsZero() && (!ev.HasDate() || !ev.Date.After(since)) {
				continue
			}
			if !yield(ev) {
				return
			}
		}
	}
}

// From returns the events at positions i and later, in log order.
func (s *Store) From(i int) []models.HazardEvent {
	if s == nil || i >= len(s.events) {
		return nil
	}
	if i < 0 {
		i = 0
	}
	out := make([]models.HazardEvent, len(s.events)-i)
	copy(out, s.events[i:])
	return out
}
