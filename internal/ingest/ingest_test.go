package ingest

import (
	"context"
	"testing"
	"time"

	"vitalboard/internal/logger"
	"vitalboard/internal/models"
)

type captureRepo struct {
	inserted []models.SensorReading
}

func (c *captureRepo) LatestPerDevice(ctx context.Context) ([]models.SensorReading, error) {
	return nil, nil
}

func (c *captureRepo) InRange(ctx context.Context, from, to time.Time) ([]models.SensorReading, error) {
	return nil, nil
}

func (c *captureRepo) Insert(ctx context.Context, r models.SensorReading) error {
	c.inserted = append(c.inserted, r)
	return nil
}

func TestDeviceIDFromTopic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		topic string
		want  string
	}{
		{"sensors/dev-42/readings", "dev-42"},
		{"sensors//readings", ""},
		{"sensors/dev-42/telemetry", ""},
		{"other/dev-42/readings", ""},
		{"readings", ""},
	}
	for _, tc := range cases {
		if got := deviceIDFromTopic(tc.topic); got != tc.want {
			t.Fatalf("deviceIDFromTopic(%q) = %q, want %q", tc.topic, got, tc.want)
		}
	}
}

func TestSimulator_ValuesInsidePlausibleRanges(t *testing.T) {
	t.Parallel()

	sim := NewSimulator(&captureRepo{}, logger.Nop(), "")
	now := time.Now()

	for i := 0; i < 100; i++ {
		r := sim.nextReading(now)
		if r.DeviceID != "sim-device-01" {
			t.Fatalf("device id = %q", r.DeviceID)
		}
		if r.HeartRate == nil || *r.HeartRate < 62 || *r.HeartRate > 110 {
			t.Fatalf("heart rate out of range: %v", r.HeartRate)
		}
		if r.SpO2 == nil || *r.SpO2 < 94 || *r.SpO2 > 99 {
			t.Fatalf("spo2 out of range: %v", r.SpO2)
		}
		// ECG fields come and go together
		if (r.ECGValue == nil) != (r.ECGLeadConnected == nil) {
			t.Fatalf("ecg value and lead flag must be absent together: %+v", r)
		}
	}
}

func TestSimulator_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	repo := &captureRepo{}
	sim := NewSimulator(repo, logger.Nop(), "dev-7")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
	if len(repo.inserted) == 0 {
		t.Fatalf("expected at least one simulated insert")
	}
	if repo.inserted[0].DeviceID != "dev-7" {
		t.Fatalf("device id = %q", repo.inserted[0].DeviceID)
	}
}
