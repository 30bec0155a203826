package service

import (
	"math"

	"vitalboard/internal/models"
)

// Stats summarizes the non-null, non-NaN values of one measurement field.
// Defined is false when no values survive filtering; consumers must render
// "no data" instead of the zero-valued statistics.
type Stats struct {
	Count   int     `json:"count"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	Defined bool    `json:"defined"`
}

// Summarize filters out absent and NaN values for the field, then computes
// count, minimum, maximum and arithmetic mean over what remains.
func Summarize(readings []models.SensorReading, field models.Field) Stats {
	var (
		count int
		min   = math.Inf(1)
		max   = math.Inf(-1)
		sum   float64
	)
	for _, r := range readings {
		v := r.Value(field)
		if v == nil || math.IsNaN(*v) {
			continue
		}
		count++
		sum += *v
		if *v < min {
			min = *v
		}
		if *v > max {
			max = *v
		}
	}
	if count == 0 {
		return Stats{}
	}
	return Stats{
		Count:   count,
		Min:     min,
		Max:     max,
		Mean:    sum / float64(count),
		Defined: true,
	}
}

// FieldInfo describes one selectable measurement: label, unit and the chart
// color the original dashboard assigned it. NormalRange is empty for fields
// without a recognized reference range.
type FieldInfo struct {
	Field       models.Field `json:"field"`
	Label       string       `json:"label"`
	Unit        string       `json:"unit"`
	Color       string       `json:"color"`
	NormalRange string       `json:"normal_range,omitempty"`
}

var fieldCatalog = []FieldInfo{
	{Field: models.FieldHeartRate, Label: "Heart Rate", Unit: "BPM", Color: "#ff4560", NormalRange: "60-100 BPM"},
	{Field: models.FieldSpO2, Label: "Blood Oxygen", Unit: "%", Color: "#008ffb", NormalRange: "95-100%"},
	{Field: models.FieldBodyTempF, Label: "Body Temperature", Unit: "°F", Color: "#feb019", NormalRange: "97-99°F"},
	{Field: models.FieldTemperature, Label: "Room Temperature", Unit: "°C", Color: "#00e396"},
	{Field: models.FieldHumidity, Label: "Humidity", Unit: "%", Color: "#00d4bd"},
	{Field: models.FieldAirQuality, Label: "Air Quality", Unit: "ppm", Color: "#9c27b0"},
	{Field: models.FieldECGValue, Label: "ECG Value", Unit: "mV", Color: "#673ab7"},
}

// FieldCatalog returns the selectable fields in display order.
func FieldCatalog() []FieldInfo {
	out := make([]FieldInfo, len(fieldCatalog))
	copy(out, fieldCatalog)
	return out
}

func fieldInfo(f models.Field) FieldInfo {
	for _, fi := range fieldCatalog {
		if fi.Field == f {
			return fi
		}
	}
	return FieldInfo{Field: f, Label: string(f)}
}
