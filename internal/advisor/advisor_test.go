package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mr1hm/go-saferoute/internal/hazardlog"
	"github.com/mr1hm/go-saferoute/internal/models"
)

type stubGenerator struct {
	text   string
	err    error
	prompt string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.text, g.err
}

var now = time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func testStore() *hazardlog.Store {
	return hazardlog.NewStore([]models.HazardEvent{
		{District: "Idukki", Place: "Munnar", Date: now.AddDate(0, -2, 0), DisasterEvent: "Landslide"},
		{District: "Idukki", Place: "Munnar", Date: now.AddDate(0, -1, 0), DisasterEvent: "Flood", DiseaseCases: intPtr(4)},
		{District: "Idukki", Place: "Vagamon", Date: now.AddDate(0, -3, 0), DisasterEvent: "Flood"},
		{District: "Idukki", Place: "Munnar", Date: now.AddDate(-5, 0, 0), DisasterEvent: "Cyclone"},
	})
}

func TestTip_Fallback(t *testing.T) {
	a := New(nil)
	tip, src := a.Tip(context.Background(), []string{"Munnar", "Athirappilly"})

	if src != SourceFallback {
		t.Errorf("expected fallback source, got %s", src)
	}
	want := "Enjoy your journey! When travelling through Munnar, Athirappilly, always check local news for the latest updates on weather and road conditions."
	if tip != want {
		t.Errorf("unexpected tip %q", tip)
	}
}

func TestTip_GeneratorError(t *testing.T) {
	a := New(&stubGenerator{err: errors.New("quota")})
	tip, src := a.Tip(context.Background(), nil)

	if src != SourceFallback {
		t.Errorf("expected fallback source, got %s", src)
	}
	if !strings.Contains(tip, "your destinations") {
		t.Errorf("unexpected tip %q", tip)
	}
}

func TestTip_Generated(t *testing.T) {
	gen := &stubGenerator{text: "Carry rain gear."}
	a := New(gen)
	tip, src := a.Tip(context.Background(), []string{"Munnar"})

	if src != SourceGenerated || tip != "Carry rain gear." {
		t.Errorf("got (%q, %s)", tip, src)
	}
	if !strings.Contains(gen.prompt, "Munnar") {
		t.Errorf("expected stop names in prompt, got %q", gen.prompt)
	}
}

func TestChat(t *testing.T) {
	if _, err := New(nil).Chat(context.Background(), "hi"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}

	reply, err := New(&stubGenerator{text: "**Hello**"}).Chat(context.Background(), "hi")
	if err != nil || reply != "**Hello**" {
		t.Errorf("got (%q, %v)", reply, err)
	}

	boom := errors.New("boom")
	if _, err := New(&stubGenerator{err: boom}).Chat(context.Background(), "hi"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped generator error, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	h := Summarize(testStore(), "idukki", now, 730*24*time.Hour)

	if h.Events != 3 {
		t.Errorf("expected 3 events in window, got %d", h.Events)
	}
	if h.DisasterCounts["Flood"] != 2 || h.DisasterCounts["Landslide"] != 1 {
		t.Errorf("unexpected counts %v", h.DisasterCounts)
	}
	if h.DiseaseCases != 4 {
		t.Errorf("expected 4 disease cases, got %d", h.DiseaseCases)
	}
	if !strings.Contains(h.String(), "Flood: 2, Landslide: 1") {
		t.Errorf("unexpected summary %q", h.String())
	}
}

func TestPredict(t *testing.T) {
	lookback := 730 * 24 * time.Hour

	tests := []struct {
		name  string
		gen   Generator
		store *hazardlog.Store
		want  Prediction
	}{
		{"no generator", nil, testStore(), predictionUnavailable},
		{"no history", &stubGenerator{text: "{}"}, hazardlog.Empty(), predictionNoHistory},
		{"generator error", &stubGenerator{err: errors.New("x")}, testStore(), predictionFailed},
		{"bad json", &stubGenerator{text: "sunny"}, testStore(), predictionFailed},
		{"missing field", &stubGenerator{text: `{"disaster_alert":"x"}`}, testStore(), predictionFailed},
		{
			"fenced json",
			&stubGenerator{text: "```json\n{\"disaster_alert\":\"Monsoon landslides likely.\",\"disease_alert\":\"Watch for dengue.\"}\n```"},
			testStore(),
			Prediction{DisasterAlert: "Monsoon landslides likely.", DiseaseAlert: "Watch for dengue."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.gen).Predict(context.Background(), tt.store, "Idukki", now, lookback)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPredict_NoEventsInDistrict(t *testing.T) {
	got := New(&stubGenerator{text: "{}"}).Predict(context.Background(), testStore(), "Kollam", now, 730*24*time.Hour)

	if !strings.Contains(got.DisasterAlert, "No significant events recorded for Kollam") {
		t.Errorf("unexpected disaster alert %q", got.DisasterAlert)
	}
	if got.DiseaseAlert != "No specific disease outbreaks reported recently." {
		t.Errorf("unexpected disease alert %q", got.DiseaseAlert)
	}
}
