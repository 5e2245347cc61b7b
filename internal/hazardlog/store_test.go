package hazardlog

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/mr1hm/go-saferoute/internal/models"
)

const sampleLog = `Date, District, Place, Temperature C, Rainfall mm, Humidity Percent, Disease Cases, Disaster Event, Description, Risk Level
2025-06-10,Idukki,Munnar,22.5,120,90,0,Landslide,Minor landslide on the gap road,High Risk
2025-07-01,Idukki,Munnar,23,80,88,4,None,Fever cases reported,Moderate Risk
not-a-date,Idukki,Munnar,21,10,70,0,Flood,Undated entry,Low Risk
2025-08-15,idukki,Vagamon,35.1,20,60,,None,,Low Risk
2025-08-16,Wayanad,Tholpetty,30,,,2,None,Disease cluster,Moderate Risk
2025-08-17,Wayanad,Tholpetty,30,5,60,0,None,too,many,fields,here
2019-01-01,Wayanad,Tholpetty,30,5,60,0,Cyclone,Old cyclone,High Risk
,,Nowhere,30,5,60,0,None,Missing district,Low Risk
`

func parseSample(t *testing.T) *Store {
	t.Helper()
	s, err := Parse(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return s
}

func collect(s *Store, district, place string, since time.Time) []models.HazardEvent {
	return slices.Collect(s.Events(district, place, since))
}

func TestParse_SkipsMalformedRows(t *testing.T) {
	s := parseSample(t)

	if s.Len() != 6 {
		t.Errorf("expected 6 events, got %d", s.Len())
	}
	if s.Skipped() != 2 {
		t.Errorf("expected 2 skipped rows, got %d", s.Skipped())
	}
	if !s.Available() {
		t.Error("expected store to be available")
	}
}

func TestParse_NormalizesColumnsAndValues(t *testing.T) {
	s := parseSample(t)

	events := collect(s, "Idukki", "Munnar", time.Time{})
	if len(events) != 3 {
		t.Fatalf("expected 3 Munnar events, got %d", len(events))
	}

	first := events[0]
	if first.TemperatureC == nil || *first.TemperatureC != 22.5 {
		t.Errorf("expected temperature 22.5, got %v", first.TemperatureC)
	}
	if first.RainfallMM == nil || *first.RainfallMM != 120 {
		t.Errorf("expected rainfall 120, got %v", first.RainfallMM)
	}
	if first.DisasterEvent != "Landslide" {
		t.Errorf("expected Landslide, got %q", first.DisasterEvent)
	}
	if first.Date != time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC) {
		t.Errorf("unexpected date %v", first.Date)
	}

	undated := events[2]
	if undated.HasDate() {
		t.Errorf("expected unparseable date to be missing, got %v", undated.Date)
	}
}

func TestParse_MissingNumbersAreNil(t *testing.T) {
	s := parseSample(t)

	events := collect(s, "Idukki", "Vagamon", time.Time{})
	if len(events) != 1 {
		t.Fatalf("expected 1 Vagamon event, got %d", len(events))
	}
	if events[0].DiseaseCases != nil {
		t.Errorf("expected nil disease cases, got %d", *events[0].DiseaseCases)
	}

	events = collect(s, "Wayanad", "Tholpetty", time.Time{})
	if len(events) != 2 {
		t.Fatalf("expected 2 Tholpetty events, got %d", len(events))
	}
	if events[0].RainfallMM != nil || events[0].HumidityPercent != nil {
		t.Error("expected empty rainfall and humidity to be nil")
	}
}

func TestEvents_CaseInsensitive(t *testing.T) {
	s := parseSample(t)

	if got := len(collect(s, "IDUKKI", "", time.Time{})); got != 4 {
		t.Errorf("expected 4 Idukki events, got %d", got)
	}
	if got := len(collect(s, "idukki", "munnar", time.Time{})); got != 3 {
		t.Errorf("expected 3 Munnar events, got %d", got)
	}
}

func TestEvents_SinceExcludesUndatedAndOld(t *testing.T) {
	s := parseSample(t)
	since := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	events := collect(s, "Idukki", "Munnar", since)
	if len(events) != 1 {
		t.Fatalf("expected 1 event strictly after %v, got %d", since, len(events))
	}
	if events[0].Description != "Fever cases reported" {
		t.Errorf("unexpected event %q", events[0].Description)
	}

	events = collect(s, "Wayanad", "Tholpetty", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if len(events) != 1 {
		t.Errorf("expected the 2019 cyclone to be excluded, got %d events", len(events))
	}
}

func TestEvents_StopsEarly(t *testing.T) {
	s := parseSample(t)

	n := 0
	for range s.Events("Idukki", "", time.Time{}) {
		n++
		break
	}
	if n != 1 {
		t.Errorf("expected iteration to stop after 1 event, got %d", n)
	}
}

func TestParse_MissingDistrictColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("date,place\n2025-01-01,Munnar\n"))
	if err == nil {
		t.Fatal("expected error for missing district column")
	}
}

func TestParse_EmptyInput(t *testing.T) {
	s, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.Available() {
		t.Error("expected empty input to be unavailable")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatalf("expected missing file to be non-fatal, got %v", err)
	}
	if s.Available() {
		t.Error("expected missing file to yield an unavailable store")
	}
	if got := len(collect(s, "Idukki", "", time.Time{})); got != 0 {
		t.Errorf("expected no events, got %d", got)
	}
}

func TestSource_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risklog.csv")
	header := "date,district,place,disaster_event\n"
	if err := os.WriteFile(path, []byte(header+"2025-01-01,Kollam,Munroe Island,Flood\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	src, err := NewSource(path)
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}
	held := src.Snapshot()
	if held.Len() != 1 {
		t.Fatalf("expected 1 event, got %d", held.Len())
	}

	content := header + "2025-01-01,Kollam,Munroe Island,Flood\n2025-02-01,Kollam,Munroe Island,None\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes failed: %v", err)
	}

	changed, err := src.Changed()
	if err != nil {
		t.Fatalf("Changed failed: %v", err)
	}
	if !changed {
		t.Fatal("expected change to be detected")
	}

	prev, next, err := src.Reload()
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if prev != held {
		t.Error("expected previous snapshot to be returned")
	}
	if next.Len() != 2 {
		t.Errorf("expected 2 events after reload, got %d", next.Len())
	}
	if held.Len() != 1 {
		t.Error("held snapshot must not change after reload")
	}
	if tail := next.From(prev.Len()); len(tail) != 1 || tail[0].DisasterEvent != "None" {
		t.Errorf("unexpected tail %v", tail)
	}
}

func TestStaticSource(t *testing.T) {
	src := StaticSource(nil)
	if src.Snapshot().Available() {
		t.Error("expected nil snapshot to be replaced by an empty one")
	}
	changed, err := src.Changed()
	if err != nil || changed {
		t.Errorf("expected static source to never change, got %v, %v", changed, err)
	}
}
