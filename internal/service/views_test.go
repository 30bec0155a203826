package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"vitalboard/internal/models"
)

// fakeReadings satisfies Readings with canned data, bypassing the store.
type fakeReadings struct {
	latest []models.SensorReading
	ranged []models.SensorReading
}

func (f *fakeReadings) Latest(ctx context.Context) []models.SensorReading {
	return f.latest
}

func (f *fakeReadings) InRange(ctx context.Context, tr models.TimeRange) []models.SensorReading {
	return f.ranged
}

func TestBuild_AbsentFieldProducesNoCard(t *testing.T) {
	t.Parallel()

	hr := 105.0
	views := NewViewService(&fakeReadings{
		latest: []models.SensorReading{{
			ID:        "r1",
			DeviceID:  "dev-1",
			Timestamp: time.Now().UTC(),
			HeartRate: &hr,
			// ECGValue absent on purpose
		}},
	})

	snap, err := views.Build(context.Background(), CategoryCardiovascular)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(snap.Cards) != 1 {
		t.Fatalf("want 1 card for the present field only, got %d: %+v", len(snap.Cards), snap.Cards)
	}
	card := snap.Cards[0]
	if card.Title != "Heart Rate" || card.Value != "105.0" || card.Unit != "BPM" {
		t.Fatalf("unexpected heart rate card: %+v", card)
	}
}

func TestBuild_HypertensionStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hr   *float64
		want string
	}{
		{"elevated", fp(105), "Elevated"},
		{"boundary is normal", fp(100), "Normal"},
		{"normal", fp(72), "Normal"},
		{"absent", nil, "Normal"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			views := NewViewService(&fakeReadings{
				latest: []models.SensorReading{{
					ID:        "r1",
					DeviceID:  "dev-1",
					Timestamp: time.Now().UTC(),
					HeartRate: tc.hr,
				}},
			})
			snap, err := views.Build(context.Background(), CategoryHypertension)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if snap.Status != tc.want {
				t.Fatalf("status = %q, want %q", snap.Status, tc.want)
			}
		})
	}
}

func TestBuild_NoDataMessage(t *testing.T) {
	t.Parallel()

	views := NewViewService(&fakeReadings{})

	snap, err := views.Build(context.Background(), CategoryRespiratory)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(snap.Cards) != 0 {
		t.Fatalf("empty store must yield no cards, got %+v", snap.Cards)
	}
	if snap.Message != "No respiratory data available" {
		t.Fatalf("message = %q", snap.Message)
	}
}

func TestBuild_UnknownCategory(t *testing.T) {
	t.Parallel()

	views := NewViewService(&fakeReadings{})
	if _, err := views.Build(context.Background(), "nephrology"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestBuild_SeriesSkipsAbsentValues(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	views := NewViewService(&fakeReadings{
		latest: []models.SensorReading{reading("r3", ts.Add(2*time.Minute), fp(80))},
		ranged: []models.SensorReading{
			reading("r1", ts, fp(70)),
			reading("r2", ts.Add(time.Minute), nil),
			reading("r3", ts.Add(2*time.Minute), fp(80)),
		},
	})

	snap, err := views.Build(context.Background(), CategoryHypertension)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(snap.Series) != 1 {
		t.Fatalf("want 1 series, got %d", len(snap.Series))
	}
	pts := snap.Series[0].Points
	if len(pts) != 2 || pts[0].Value != 70 || pts[1].Value != 80 {
		t.Fatalf("gap rows must be skipped, not zero-filled: %+v", pts)
	}
}

func TestBuild_CancelledContext(t *testing.T) {
	t.Parallel()

	views := NewViewService(&fakeReadings{})
	c, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := views.Build(c, CategoryCardiovascular); err == nil {
		t.Fatalf("expected context error")
	}
}
