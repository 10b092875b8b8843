package nasapower

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/aerosense/internal/domain/environment"
)

const (
	defaultBaseURL = "https://power.larc.nasa.gov/api/temporal/hourly/point"
	parameters     = "T2M,RH2M,ALLSKY_SFC_SW_DWN"
	missingValue   = -999
	lookbackDays   = 7

	// NASA POWER has no air quality product.
	defaultAQI = 50
	// Hourly irradiance (W/m2) scaled down to a rough UV index.
	uvDivisor = 25
)

// Client fetches recent surface conditions from the NASA POWER API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient builds an API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// FetchConditions returns the latest valid value of each parameter over the lookback range.
func (c *Client) FetchConditions(ctx context.Context, lat, lon float64) (environment.LiveConditions, error) {
	end := c.now().UTC()
	start := end.AddDate(0, 0, -lookbackDays)
	query := url.Values{}
	query.Set("parameters", parameters)
	query.Set("community", "RE")
	query.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	query.Set("start", start.Format("20060102"))
	query.Set("end", end.Format("20060102"))
	query.Set("format", "JSON")
	endpoint := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return environment.LiveConditions{}, fmt.Errorf("build nasa request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return environment.LiveConditions{}, fmt.Errorf("nasa request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return environment.LiveConditions{}, fmt.Errorf("nasa request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return environment.LiveConditions{}, fmt.Errorf("decode nasa response: %w", err)
	}

	return toConditions(raw.Properties.Parameter, end), nil
}

type apiResponse struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

func toConditions(params map[string]map[string]float64, fetched time.Time) environment.LiveConditions {
	fallback := environment.FallbackConditions(fetched)
	out := environment.LiveConditions{
		Temperature:     fallback.Temperature,
		Humidity:        fallback.Humidity,
		SolarIrradiance: fallback.SolarIrradiance,
		UVIndex:         fallback.UVIndex,
		AQI:             defaultAQI,
		FetchedAt:       fetched,
	}
	if v, ok := latestValid(params["T2M"]); ok {
		out.Temperature = v
	}
	if v, ok := latestValid(params["RH2M"]); ok {
		out.Humidity = v
	}
	if v, ok := latestValid(params["ALLSKY_SFC_SW_DWN"]); ok {
		out.SolarIrradiance = v
		out.UVIndex = v / uvDivisor
	}
	return out
}

// latestValid picks the value at the greatest YYYYMMDDHH key that is not the missing marker.
func latestValid(series map[string]float64) (float64, bool) {
	keys := make([]string, 0, len(series))
	for k, v := range series {
		if v == missingValue {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return 0, false
	}
	sort.Strings(keys)
	return series[keys[len(keys)-1]], true
}
