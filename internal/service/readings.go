package service

import (
	"context"

	"vitalboard/internal/logger"
	"vitalboard/internal/models"
	"vitalboard/internal/repository"
)

// ReadingService is the data access layer over the sensor store.
//
// Store failures are logged and swallowed to an empty slice: callers treat
// "empty" as the uniform not-found signal and must not be able to tell a
// failed query from a store with no rows. No retries happen here; the only
// retry mechanism in the system is the periodic re-poll or an explicit
// user-triggered refresh.
type ReadingService struct {
	readingRepo repository.ReadingRepo
	log         *logger.Logger
}

func NewReadingService(readingRepo repository.ReadingRepo, log *logger.Logger) *ReadingService {
	return &ReadingService{readingRepo: readingRepo, log: log}
}

var _ Readings = (*ReadingService)(nil)

// Latest returns the most recent reading per device, or an empty slice when
// the store query fails.
func (s *ReadingService) Latest(ctx context.Context) []models.SensorReading {
	readings, err := s.readingRepo.LatestPerDevice(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("latest_readings_query_failed", "err", err)
		}
		return []models.SensorReading{}
	}
	return readings
}

// InRange returns readings with timestamp inside tr, inclusive, ascending by
// timestamp, or an empty slice when the store query fails.
func (s *ReadingService) InRange(ctx context.Context, tr models.TimeRange) []models.SensorReading {
	readings, err := s.readingRepo.InRange(ctx, tr.Start, tr.End)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("range_readings_query_failed", "err", err, "from", tr.Start, "to", tr.End)
		}
		return []models.SensorReading{}
	}
	return readings
}
