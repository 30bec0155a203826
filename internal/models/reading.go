package models

import "time"

// SensorReading is one timestamped observation batch from a device.
// Measurement fields are pointers: a sensor that is not attached reports
// nothing, and nil must stay distinguishable from a literal zero.
type SensorReading struct {
	ID               string    `json:"id"`
	DeviceID         string    `json:"device_id"`
	Timestamp        time.Time `json:"timestamp"`
	Temperature      *float64  `json:"temperature,omitempty"`        // ambient, °C
	Humidity         *float64  `json:"humidity,omitempty"`           // relative, %
	AirQuality       *float64  `json:"air_quality,omitempty"`        // VOC, ppm
	ECGValue         *float64  `json:"ecg_value,omitempty"`          // mV
	ECGLeadConnected *bool     `json:"ecg_lead_connected,omitempty"`
	HeartRate        *float64  `json:"heart_rate,omitempty"`         // BPM
	SpO2             *float64  `json:"spo2,omitempty"`               // %
	BodyTempF        *float64  `json:"body_temp_f,omitempty"`        // °F
}

// Field names a reading's numeric measurements for selection in records and
// reports. The set is closed; ParseField rejects anything else.
type Field string

const (
	FieldHeartRate   Field = "heart_rate"
	FieldSpO2        Field = "spo2"
	FieldBodyTempF   Field = "body_temp_f"
	FieldTemperature Field = "temperature"
	FieldHumidity    Field = "humidity"
	FieldAirQuality  Field = "air_quality"
	FieldECGValue    Field = "ecg_value"
)

// ParseField returns the matching Field, or false for an unknown name.
func ParseField(s string) (Field, bool) {
	switch Field(s) {
	case FieldHeartRate, FieldSpO2, FieldBodyTempF, FieldTemperature,
		FieldHumidity, FieldAirQuality, FieldECGValue:
		return Field(s), true
	}
	return "", false
}

// Value extracts the named measurement from r, nil when absent.
func (r SensorReading) Value(f Field) *float64 {
	switch f {
	case FieldHeartRate:
		return r.HeartRate
	case FieldSpO2:
		return r.SpO2
	case FieldBodyTempF:
		return r.BodyTempF
	case FieldTemperature:
		return r.Temperature
	case FieldHumidity:
		return r.Humidity
	case FieldAirQuality:
		return r.AirQuality
	case FieldECGValue:
		return r.ECGValue
	}
	return nil
}
