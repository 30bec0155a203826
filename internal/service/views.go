package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"vitalboard/internal/models"
)

// View categories. Each one scopes the dashboard to a subset of measurement
// fields with its own historical window.
const (
	CategoryCardiovascular = "cardiovascular"
	CategoryRespiratory    = "respiratory"
	CategoryHypertension   = "hypertension"
)

var ErrUnknownCategory = errors.New("unknown view category")

// heart rate above this is reported as "Elevated" on the hypertension view
const elevatedHeartRateBPM = 100

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// Card is one indicator tile. A reading field that is absent produces no
// card at all, never a zeroed one.
type Card struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
}

type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Series is one charted measurement over the view's historical window.
type Series struct {
	Field  models.Field  `json:"field"`
	Title  string        `json:"title"`
	Unit   string        `json:"unit"`
	Color  string        `json:"color"`
	Points []SeriesPoint `json:"points"`
}

// ViewSnapshot is everything one category view renders from a single fetch
// cycle. Message is set instead of Cards when the latest set is empty.
type ViewSnapshot struct {
	Category    string    `json:"category"`
	GeneratedAt time.Time `json:"generated_at"`
	Cards       []Card    `json:"cards,omitempty"`
	Status      string    `json:"status,omitempty"`
	Series      []Series  `json:"series,omitempty"`
	Message     string    `json:"message,omitempty"`
}

// viewDef parameterizes one category: which history window and series it
// charts, and how the latest reading maps to cards.
type viewDef struct {
	window   time.Duration // zero means the view charts no history
	series   []models.Field
	cards    func(r models.SensorReading) []Card
	status   func(r models.SensorReading) string
	noData   string
}

// ViewService derives display snapshots from the data access layer. It holds
// no state of its own; the refresher owns the committed snapshots.
type ViewService struct {
	readings Readings
	defs     map[string]viewDef
}

func NewViewService(readings Readings) *ViewService {
	return &ViewService{
		readings: readings,
		defs: map[string]viewDef{
			CategoryCardiovascular: {
				window: day,
				series: []models.Field{models.FieldHeartRate, models.FieldECGValue},
				cards:  cardiovascularCards,
				noData: "No cardiovascular data available",
			},
			CategoryRespiratory: {
				cards:  respiratoryCards,
				noData: "No respiratory data available",
			},
			CategoryHypertension: {
				window: week,
				series: []models.Field{models.FieldHeartRate},
				cards:  hypertensionCards,
				status: hypertensionStatus,
				noData: "No hypertension data available",
			},
		},
	}
}

// Categories returns the known view names in a fixed order.
func (s *ViewService) Categories() []string {
	return []string{CategoryCardiovascular, CategoryRespiratory, CategoryHypertension}
}

// Build runs one fetch cycle for the category and assembles the snapshot.
// The only error paths are an unknown category and a dead context; store
// failures arrive as empty results from the data access layer.
func (s *ViewService) Build(ctx context.Context, category string) (ViewSnapshot, error) {
	def, ok := s.defs[category]
	if !ok {
		return ViewSnapshot{}, ErrUnknownCategory
	}

	latest := s.readings.Latest(ctx)
	if err := ctx.Err(); err != nil {
		return ViewSnapshot{}, err
	}

	snap := ViewSnapshot{Category: category, GeneratedAt: time.Now().UTC()}
	if len(latest) > 0 {
		// single implicit device: the first latest row is the one rendered
		r := latest[0]
		snap.Cards = def.cards(r)
		if def.status != nil {
			snap.Status = def.status(r)
		}
	} else {
		snap.Message = def.noData
	}

	if def.window > 0 {
		history := s.readings.InRange(ctx, models.LastDuration(def.window))
		if err := ctx.Err(); err != nil {
			return ViewSnapshot{}, err
		}
		for _, f := range def.series {
			snap.Series = append(snap.Series, buildSeries(history, f))
		}
	}

	return snap, nil
}

func cardiovascularCards(r models.SensorReading) []Card {
	var cards []Card
	if r.HeartRate != nil {
		cards = append(cards, Card{
			Title:       "Heart Rate",
			Value:       fmtMeasure(*r.HeartRate, 1),
			Unit:        "BPM",
			Description: "Normal range: 60-100 BPM",
		})
	}
	if r.ECGValue != nil {
		desc := "Lead disconnected"
		if r.ECGLeadConnected != nil && *r.ECGLeadConnected {
			desc = "Lead connected"
		}
		cards = append(cards, Card{
			Title:       "ECG Value",
			Value:       fmtMeasure(*r.ECGValue, 0),
			Unit:        "mV",
			Description: desc,
		})
	}
	return cards
}

func respiratoryCards(r models.SensorReading) []Card {
	var cards []Card
	if r.SpO2 != nil {
		cards = append(cards, Card{
			Title:       "Blood Oxygen",
			Value:       fmtMeasure(*r.SpO2, 0),
			Unit:        "%",
			Description: "Normal range: 95-100%",
		})
	}
	if r.AirQuality != nil {
		cards = append(cards, Card{
			Title:       "Air Quality",
			Value:       fmtMeasure(*r.AirQuality, -1),
			Unit:        "ppm",
			Description: "VOC concentration in air",
		})
	}
	if r.ECGValue != nil {
		cards = append(cards, Card{
			Title:       "Breath Monitor",
			Value:       fmtMeasure(*r.ECGValue, 0),
			Unit:        "mV",
			Description: "Current breathing pattern value",
		})
	}
	return cards
}

func hypertensionCards(r models.SensorReading) []Card {
	var cards []Card
	if r.HeartRate != nil {
		cards = append(cards, Card{
			Title:       "Heart Rate",
			Value:       fmtMeasure(*r.HeartRate, 1),
			Unit:        "BPM",
			Description: "Normal range: 60-100 BPM",
		})
	}
	if r.BodyTempF != nil {
		cards = append(cards, Card{
			Title:       "Body Temperature",
			Value:       fmtMeasure(*r.BodyTempF, 1),
			Unit:        "°F",
			Description: "Normal range: 97-99°F",
		})
	}
	return cards
}

// hypertensionStatus is recomputed from the latest reading on every build,
// never cached across cycles.
func hypertensionStatus(r models.SensorReading) string {
	if r.HeartRate != nil && *r.HeartRate > elevatedHeartRateBPM {
		return "Elevated"
	}
	return "Normal"
}

func buildSeries(history []models.SensorReading, field models.Field) Series {
	fi := fieldInfo(field)
	s := Series{
		Field:  field,
		Title:  fi.Label,
		Unit:   fi.Unit,
		Color:  fi.Color,
		Points: make([]SeriesPoint, 0, len(history)),
	}
	for _, r := range history {
		if v := r.Value(field); v != nil {
			s.Points = append(s.Points, SeriesPoint{Timestamp: r.Timestamp, Value: *v})
		}
	}
	return s
}

// fmtMeasure formats a measurement with a fixed number of decimals;
// decimals < 0 keeps the shortest exact representation.
func fmtMeasure(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
