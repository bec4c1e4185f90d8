package route

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shinely/models"
)

const (
	googleDirectionsURL = "https://maps.googleapis.com/maps/api/directions/json"
	defaultHTTPTimeout  = 8 * time.Second
)

// DirectionsClient returns the drive time of each leg between consecutive waypoints.
type DirectionsClient interface {
	LegDurations(ctx context.Context, waypoints []models.GeoPoint) ([]time.Duration, error)
}

// GoogleDirectionsClient implements DirectionsClient with the Google Directions API.
type GoogleDirectionsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewGoogleDirectionsClient(apiKey string) *GoogleDirectionsClient {
	return NewGoogleDirectionsClientWithOptions(apiKey, googleDirectionsURL, nil)
}

// NewGoogleDirectionsClientWithOptions allows overriding base URL and HTTP client (used for tests).
func NewGoogleDirectionsClientWithOptions(apiKey, baseURL string, httpClient *http.Client) *GoogleDirectionsClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleDirectionsURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleDirectionsClient{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

type googleDirectionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Legs []struct {
			Duration struct {
				Value int `json:"value"` // seconds
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

func (g *GoogleDirectionsClient) LegDurations(ctx context.Context, waypoints []models.GeoPoint) ([]time.Duration, error) {
	if len(waypoints) < 2 {
		return nil, nil
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("google maps api key is required")
	}

	params := url.Values{}
	params.Set("origin", latLng(waypoints[0]))
	params.Set("destination", latLng(waypoints[len(waypoints)-1]))
	if mids := waypoints[1 : len(waypoints)-1]; len(mids) > 0 {
		stops := make([]string, len(mids))
		for i, p := range mids {
			stops[i] = latLng(p)
		}
		params.Set("waypoints", strings.Join(stops, "|"))
	}
	params.Set("mode", "driving")
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directions request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("directions request returned status %d", resp.StatusCode)
	}
	var body googleDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode directions response: %w", err)
	}
	if body.Status != "OK" {
		return nil, fmt.Errorf("directions status %s: %s", body.Status, body.ErrorMessage)
	}
	if len(body.Routes) == 0 {
		return nil, fmt.Errorf("no route found")
	}

	legs := body.Routes[0].Legs
	if len(legs) != len(waypoints)-1 {
		return nil, fmt.Errorf("expected %d legs, got %d", len(waypoints)-1, len(legs))
	}
	out := make([]time.Duration, len(legs))
	for i, leg := range legs {
		out[i] = time.Duration(leg.Duration.Value) * time.Second
	}
	return out, nil
}

func latLng(p models.GeoPoint) string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat(), p.Lng())
}
