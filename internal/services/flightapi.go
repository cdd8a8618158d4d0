package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/bookingbot/backend/internal/models"
)

// FlightSearcher is the flight-search collaborator as the conversation core
// sees it: opaque request/response contracts, no provider specifics.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResult, error)
	SearchAirports(ctx context.Context, query string) ([]models.Airport, error)
	FareRules(ctx context.Context, rawOffer json.RawMessage) (*models.FareRules, error)
	CalendarPrice(ctx context.Context, req models.CalendarPriceRequest) (*models.CalendarPrice, error)
}

// FlightAPIClient talks to the flight-search backend (an Amadeus-style
// aggregation service) over HTTP.
type FlightAPIClient struct {
	baseURL string
	client  *http.Client
}

// AirportLookupTimeout bounds autocomplete lookups; past it the call is
// treated as a transport error.
const AirportLookupTimeout = 10 * time.Second

// NewFlightAPIClient creates a client from the environment.
func NewFlightAPIClient() (*FlightAPIClient, error) {
	baseURL := os.Getenv("FLIGHT_API_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("missing FLIGHT_API_URL in environment variables")
	}
	return &FlightAPIClient{
		baseURL: baseURL,
		client:  &http.Client{},
	}, nil
}

// NewFlightAPIClientWithURL creates a client for a known endpoint (tests).
func NewFlightAPIClientWithURL(baseURL string) *FlightAPIClient {
	return &FlightAPIClient{baseURL: baseURL, client: &http.Client{}}
}

func (c *FlightAPIClient) SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResult, error) {
	var result models.FlightSearchResult
	if err := c.postJSON(ctx, "/api/search-flights", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *FlightAPIClient) SearchAirports(ctx context.Context, query string) ([]models.Airport, error) {
	ctx, cancel := context.WithTimeout(ctx, AirportLookupTimeout)
	defer cancel()

	endpoint := c.baseURL + "/api/airports?query=" + url.QueryEscape(query)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Airports []models.Airport `json:"airports"`
	}
	if err := c.do(httpReq, &payload); err != nil {
		return nil, err
	}
	return payload.Airports, nil
}

func (c *FlightAPIClient) FareRules(ctx context.Context, rawOffer json.RawMessage) (*models.FareRules, error) {
	body := map[string]json.RawMessage{"flight_offer": rawOffer}
	var rules models.FareRules
	if err := c.postJSON(ctx, "/api/fare-rules", body, &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (c *FlightAPIClient) CalendarPrice(ctx context.Context, req models.CalendarPriceRequest) (*models.CalendarPrice, error) {
	var price models.CalendarPrice
	if err := c.postJSON(ctx, "/api/calendar-prices", req, &price); err != nil {
		return nil, err
	}
	return &price, nil
}

func (c *FlightAPIClient) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return c.do(httpReq, out)
}

// do executes the request and decodes the response, translating transport
// and status failures into the error taxonomy.
func (c *FlightAPIClient) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrNoResponse
		}
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrNoResponse
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("flight api: failed to decode %s response: %v", req.URL.Path, err)
		return fmt.Errorf("invalid response from flight api: %w", err)
	}
	return nil
}

// errorDetail pulls the backend's detail text out of an error body when one
// is present.
func errorDetail(raw []byte) string {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Detail != "" {
		return body.Detail
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
