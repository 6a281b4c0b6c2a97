package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/staybooking/listing-service/internal/listing/domain"
	"github.com/staybooking/listing-service/internal/platform/logger"
)

// NominatimGeocoder resolves addresses against a Nominatim-compatible
// endpoint. All failures, including ambiguous addresses with no result,
// surface as domain.ErrGeocodingFailure.
type NominatimGeocoder struct {
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

func NewNominatimGeocoder(baseURL string, log *logger.Logger) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  log,
	}
}

func (g *NominatimGeocoder) Resolve(ctx context.Context, address string) (domain.GeoPoint, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	endpoint := fmt.Sprintf("%s/search?%s", g.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: %w", domain.ErrGeocodingFailure, err)
	}
	req.Header.Set("User-Agent", "staybooking-listing-service")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("NominatimGeocoder.Resolve: request failed", "error", err.Error())
		return domain.GeoPoint{}, fmt.Errorf("%w: %w", domain.ErrGeocodingFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Error("NominatimGeocoder.Resolve: provider returned non-OK status", "status", resp.StatusCode)
		return domain.GeoPoint{}, fmt.Errorf("%w: provider returned status %d", domain.ErrGeocodingFailure, resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: %w", domain.ErrGeocodingFailure, err)
	}
	if len(results) == 0 {
		return domain.GeoPoint{}, fmt.Errorf("%w: no result for address", domain.ErrGeocodingFailure)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: %w", domain.ErrGeocodingFailure, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: %w", domain.ErrGeocodingFailure, err)
	}

	return domain.GeoPoint{Lat: lat, Lon: lon}, nil
}
