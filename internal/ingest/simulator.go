package ingest

import (
	"context"
	"math/rand"
	"time"

	"vitalboard/internal/logger"
	"vitalboard/internal/models"
	"vitalboard/internal/repository"
)

// Simulator writes synthetic readings straight into the store on a fixed
// tick. Development stand-in for a live device fleet; enabled by config only.
type Simulator struct {
	readings repository.ReadingRepo
	log      *logger.Logger
	deviceID string
}

func NewSimulator(readings repository.ReadingRepo, log *logger.Logger, deviceID string) *Simulator {
	if deviceID == "" {
		deviceID = "sim-device-01"
	}
	return &Simulator{readings: readings, log: log, deviceID: deviceID}
}

// Run produces one reading per tick until the context is cancelled.
func (s *Simulator) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			reading := s.nextReading(t)
			insertCtx, cancel := context.WithTimeout(ctx, insertTimeout)
			if err := s.readings.Insert(insertCtx, reading); err != nil {
				s.log.Errorw("simulator_insert_failed", "err", err)
			}
			cancel()
		}
	}
}

// nextReading generates values inside plausible resting ranges, with the ECG
// lead occasionally dropping out so absent-field paths get exercised.
func (s *Simulator) nextReading(t time.Time) models.SensorReading {
	r := models.SensorReading{
		DeviceID:  s.deviceID,
		Timestamp: t.UTC(),
	}
	r.Temperature = f(20 + rand.Float64()*6)   // 20-26 °C
	r.Humidity = f(35 + rand.Float64()*30)     // 35-65 %
	r.AirQuality = f(200 + rand.Float64()*600) // ppm
	r.HeartRate = f(62 + rand.Float64()*48)    // 62-110 BPM
	r.SpO2 = f(94 + rand.Float64()*5)          // 94-99 %
	r.BodyTempF = f(97 + rand.Float64()*2.5)   // 97-99.5 °F

	if rand.Intn(10) > 0 { // lead detached roughly one tick in ten
		connected := true
		r.ECGLeadConnected = &connected
		r.ECGValue = f(-400 + rand.Float64()*900) // mV trace sample
	}
	return r
}

func f(v float64) *float64 { return &v }
