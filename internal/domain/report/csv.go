package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/yanqian/aerosense/internal/domain/environment"
)

var csvHeader = []string{"month", "aqi", "category", "pm25", "pm10", "co2", "compliance"}

// BuildCSV renders the annual series of a location.
func BuildCSV(points []environment.AnnualPoint) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, p := range points {
		row := []string{
			p.Timestamp,
			strconv.Itoa(p.AQI),
			string(environment.Category(p.AQI)),
			strconv.FormatFloat(p.PM25, 'f', -1, 64),
			strconv.FormatFloat(p.PM10, 'f', -1, 64),
			strconv.FormatFloat(p.CO2, 'f', -1, 64),
			p.Compliance,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
