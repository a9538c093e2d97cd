// Package geo resolves the approximate location of a click.
// Resolution is strictly best-effort: every lookup failure is contained
// here and the resolver always produces a location, falling back to
// "Unknown" fields when nothing can be determined.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/linkpocket/linkpocket/internal/model"
)

// Default lookup endpoints. Both speak the common public API shapes
// (ip-api.com and Nominatim respectively) and can be overridden for
// self-hosted services or tests.
const (
	DefaultIPEndpoint      = "http://ip-api.com/json"
	DefaultReverseEndpoint = "https://nominatim.openstreetmap.org/reverse"

	// DefaultCoordinateTimeout bounds the device-coordinates fallback.
	DefaultCoordinateTimeout = 5 * time.Second
)

// CoordinateSource supplies device coordinates for the second lookup
// tier. It is typically absent on servers; a desktop build may wire a
// platform location service here.
type CoordinateSource interface {
	Coordinates(ctx context.Context) (lat, lon float64, err error)
}

// Config configures a Resolver. Zero values select the defaults above.
type Config struct {
	IPEndpoint      string
	ReverseEndpoint string
	Timeout         time.Duration // coordinate-source timeout
	Coordinates     CoordinateSource
	Client          *http.Client
	Logger          *slog.Logger
}

// Resolver performs the tiered location lookup: IP geolocation first,
// then device coordinates plus reverse geocoding, then "Unknown".
type Resolver struct {
	ipEndpoint      string
	reverseEndpoint string
	timeout         time.Duration
	coords          CoordinateSource
	client          *http.Client
	logger          *slog.Logger
	breaker         *gobreaker.CircuitBreaker
}

// New creates a Resolver.
func New(cfg Config) *Resolver {
	if cfg.IPEndpoint == "" {
		cfg.IPEndpoint = DefaultIPEndpoint
	}
	if cfg.ReverseEndpoint == "" {
		cfg.ReverseEndpoint = DefaultReverseEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultCoordinateTimeout
	}
	if cfg.Client == nil {
		cfg.Client = NewHTTPClient()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	// The IP lookup is an external dependency on the click-tracking
	// path; the breaker keeps a flapping provider from stalling every
	// tracked click on a full timeout.
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "geoip",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Resolver{
		ipEndpoint:      strings.TrimSuffix(cfg.IPEndpoint, "/"),
		reverseEndpoint: cfg.ReverseEndpoint,
		timeout:         cfg.Timeout,
		coords:          cfg.Coordinates,
		client:          cfg.Client,
		logger:          cfg.Logger.With("component", "geo.resolver"),
		breaker:         breaker,
	}
}

// Resolve looks up the location for an IP address. It never fails;
// undeterminable fields come back as "Unknown".
func (r *Resolver) Resolve(ctx context.Context, ip string) model.Location {
	loc, err := r.lookupIP(ctx, ip)
	if err == nil {
		return loc.Normalized()
	}
	r.logger.Debug("ip lookup failed", "ip", ip, "error", err)

	if r.coords != nil {
		if loc, err := r.lookupCoordinates(ctx); err == nil {
			return loc.Normalized()
		} else {
			r.logger.Debug("coordinate lookup failed", "error", err)
		}
	}

	return model.UnknownLocation()
}

// ipAPIResponse is the ip-api.com response shape.
type ipAPIResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
	City    string `json:"city"`
	Region  string `json:"regionName"`
}

func (r *Resolver) lookupIP(ctx context.Context, ip string) (model.Location, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		endpoint := r.ipEndpoint + "/" + url.PathEscape(ip)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return model.Location{}, err
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return model.Location{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return model.Location{}, fmt.Errorf("ip lookup returned status %d", resp.StatusCode)
		}

		var body ipAPIResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return model.Location{}, fmt.Errorf("decode ip lookup response: %w", err)
		}
		if body.Status != "success" {
			return model.Location{}, errors.New("ip lookup reported failure")
		}

		return model.Location{
			Country: body.Country,
			City:    body.City,
			Region:  body.Region,
		}, nil
	})
	if err != nil {
		return model.Location{}, err
	}
	return result.(model.Location), nil
}

// nominatimResponse is the Nominatim reverse-geocoding response shape.
type nominatimResponse struct {
	Address struct {
		Country string `json:"country"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Region  string `json:"region"`
		State   string `json:"state"`
	} `json:"address"`
}

func (r *Resolver) lookupCoordinates(ctx context.Context) (model.Location, error) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	lat, lon, err := r.coords.Coordinates(cctx)
	if err != nil {
		return model.Location{}, fmt.Errorf("obtain coordinates: %w", err)
	}

	return r.reverseGeocode(ctx, lat, lon)
}

func (r *Resolver) reverseGeocode(ctx context.Context, lat, lon float64) (model.Location, error) {
	endpoint, err := url.Parse(r.reverseEndpoint)
	if err != nil {
		return model.Location{}, err
	}
	q := endpoint.Query()
	q.Set("format", "jsonv2")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return model.Location{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return model.Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Location{}, fmt.Errorf("reverse geocode returned status %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.Location{}, fmt.Errorf("decode reverse geocode response: %w", err)
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	if city == "" {
		city = body.Address.Village
	}
	region := body.Address.Region
	if region == "" {
		region = body.Address.State
	}

	return model.Location{
		Country: body.Address.Country,
		City:    city,
		Region:  region,
	}, nil
}

// Static is a Resolver substitute that always returns the same
// location. With a zero value it reports everything as "Unknown", which
// is the right default when lookups are disabled.
type Static struct {
	Location model.Location
}

// Resolve returns the configured location, normalized.
func (s Static) Resolve(_ context.Context, _ string) model.Location {
	return s.Location.Normalized()
}
