// Package geocode resolves coordinates to addresses through Nominatim,
// behind a bounded cache that issues at most one provider call per quantized
// coordinate pair.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"usaha-chatbot/config"
	"usaha-chatbot/models"
)

// Client is a reverse-geocoding provider.
type Client interface {
	Reverse(ctx context.Context, lat, lon float64) (models.GeocodeResult, error)
}

type Nominatim struct {
	baseURL   string
	userAgent string
	language  string
	zoom      int
	http      *http.Client
}

func NewNominatim(cfg *config.Nominatim) *Nominatim {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Nominatim{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		language:  cfg.Language,
		zoom:      cfg.Zoom,
		http:      &http.Client{Timeout: timeout},
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road          string `json:"road"`
		Neighbourhood string `json:"neighbourhood"`
		Suburb        string `json:"suburb"`
		Village       string `json:"village"`
		CityDistrict  string `json:"city_district"`
		Town          string `json:"town"`
		City          string `json:"city"`
		County        string `json:"county"`
		State         string `json:"state"`
	} `json:"address"`
}

func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (models.GeocodeResult, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("zoom", strconv.Itoa(n.zoom))
	params.Set("addressdetails", "1")
	params.Set("accept-language", n.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return models.GeocodeResult{}, fmt.Errorf("failed to build reverse request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.http.Do(req)
	if err != nil {
		return models.GeocodeResult{}, fmt.Errorf("reverse geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.GeocodeResult{}, fmt.Errorf("reverse geocode returned status %d", resp.StatusCode)
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.GeocodeResult{}, fmt.Errorf("failed to decode reverse geocode response: %w", err)
	}

	addr := payload.Address
	parts := []string{
		firstNonEmpty(addr.Neighbourhood, addr.Suburb, addr.Village),
		firstNonEmpty(addr.CityDistrict, addr.Town, addr.City),
		addr.County,
		addr.State,
	}
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}

	result := models.GeocodeResult{
		Ringkas: strings.Join(kept, ", "),
		Jalan:   addr.Road,
		Full:    payload.DisplayName,
	}
	if result.Ringkas == "" && result.Full == "" {
		return models.GeocodeResult{}, fmt.Errorf("reverse geocode response had no address")
	}

	return result, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
