package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"transport-roadmap-service/internal/domain"
	"transport-roadmap-service/internal/metrics"
	"transport-roadmap-service/internal/ports"
)

// OSRMTravelTimeProvider implements the travel-time oracle against an
// OSRM-compatible routing API.
//
// It coordinates:
//   - A client-side rate limit (public OSRM instances throttle hard)
//   - An optional persistent travel-time cache (cache-aside)
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type OSRMTravelTimeProvider struct {
	session *http.Client
	baseURL string
	profile string
	limiter *rate.Limiter
	cache   ports.TravelTimeCache
}

func NewOSRMTravelTimeProvider(baseURL string, requestsPerSecond float64, cache ports.TravelTimeCache) (*OSRMTravelTimeProvider, error) {
	if baseURL == "" {
		return nil, errors.New("OSRM base URL is empty")
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}

	return &OSRMTravelTimeProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		profile: "driving",
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		cache:   cache,
	}, nil
}

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// TravelTime returns the driving duration in seconds between two
// coordinates, consulting the cache first and writing fresh results back.
func (o *OSRMTravelTimeProvider) TravelTime(ctx context.Context, origin, destination domain.Coordinate) (int, error) {
	if o.cache != nil {
		seconds, ok, err := o.cache.Get(ctx, origin, destination)
		if err != nil {
			// a broken cache degrades to live lookups, it never fails a run
			log.Printf("travel-time cache get failed: %v", err)
		} else if ok {
			metrics.OracleLookups.WithLabelValues("cache_hit").Inc()
			return seconds, nil
		}
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("osrm travel time: rate limit wait: %w", err)
	}

	op, dp := origin.Point(), destination.Point()
	url := fmt.Sprintf(
		"%s/route/v1/%s/%f,%f;%f,%f?overview=false",
		o.baseURL, o.profile, op.Lon(), op.Lat(), dp.Lon(), dp.Lat(),
	)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, url)
	})
	if err != nil {
		metrics.OracleLookups.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("osrm travel time: %w", err)
	}
	defer resp.Body.Close()

	var body osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("osrm travel time: decode response: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		metrics.OracleLookups.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("osrm travel time: no route (code=%q)", body.Code)
	}

	seconds := int(math.Round(body.Routes[0].Duration))
	metrics.OracleLookups.WithLabelValues("api").Inc()

	if o.cache != nil {
		if err := o.cache.Put(ctx, origin, destination, seconds); err != nil {
			log.Printf("travel-time cache put failed: %v", err)
		}
	}

	return seconds, nil
}
