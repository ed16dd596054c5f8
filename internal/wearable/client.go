package wearable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/dadhichi/internal/telemetry/metrics"
	"github.com/2beens/dadhichi/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

// example API call
// https://api.fitbit.com/1/user/-/activities/date/today.json

const (
	DefaultApiUrl = "https://api.fitbit.com/1"

	tenMinutes  = 10 * 60
	cacheExpire = tenMinutes
)

// ErrNoData means the device api did not return the resource. Callers treat it as absent data.
var ErrNoData = errors.New("no data")

type Client struct {
	cache       *freecache.Cache
	userURL     string // https://api.fitbit.com/1/user/{user}
	accessToken string
	httpClient  *http.Client
	metrics     *metrics.Manager
}

func NewClient(
	apiUrl, userID, accessToken string,
	httpClient *http.Client,
	metricsManager *metrics.Manager,
) *Client {
	megabyte := 1024 * 1024
	cacheSize := 10 * megabyte

	if apiUrl == "" {
		apiUrl = DefaultApiUrl
	}
	if userID == "" {
		// the user the token was issued for
		userID = "-"
	}

	return &Client{
		cache:       freecache.NewCache(cacheSize),
		userURL:     fmt.Sprintf("%s/user/%s", strings.TrimSuffix(apiUrl, "/"), userID),
		accessToken: accessToken,
		httpClient:  httpClient,
		metrics:     metricsManager,
	}
}

func (c *Client) DailyActivity(ctx context.Context, date string) (_ *DailyActivity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "wearable.client.dailyActivity")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if date == "" {
		date = "today"
	}

	var resp dailyActivityResponse
	if err := c.get(ctx, "activity", fmt.Sprintf("/activities/date/%s.json", date), &resp); err != nil {
		return nil, err
	}

	daily := &DailyActivity{Summary: resp.Summary}
	if len(resp.Activities) > 0 {
		daily.Activity = &resp.Activities[0]
	}
	return daily, nil
}

func (c *Client) HeartRate(ctx context.Context, date string) (_ *HeartRate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "wearable.client.heartRate")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if date == "" {
		date = "today"
	}

	var resp heartRateResponse
	if err := c.get(ctx, "heart", fmt.Sprintf("/activities/heart/date/%s/1d.json", date), &resp); err != nil {
		return nil, err
	}
	if len(resp.ActivitiesHeart) == 0 {
		return nil, ErrNoData
	}

	return &resp.ActivitiesHeart[0], nil
}

func (c *Client) Profile(ctx context.Context) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "wearable.client.profile")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var resp profileResponse
	if err := c.get(ctx, "profile", "/profile.json", &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, ErrNoData
	}

	return resp.User, nil
}

func (c *Client) get(ctx context.Context, resource, path string, out any) error {
	cacheKey := []byte(resource + "::" + path)
	if cached, err := c.cache.Get(cacheKey); err == nil {
		if err := json.Unmarshal(cached, out); err == nil {
			log.Tracef("wearable %s found in cache", path)
			return nil
		} else {
			log.Errorf("unmarshal cached wearable %s: %s", path, err)
		}
	}

	respBytes, err := c.fetch(ctx, path)
	if err != nil {
		c.metrics.CounterWearableApiFailures.WithLabelValues(resource).Inc()
		return err
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		c.metrics.CounterWearableApiFailures.WithLabelValues(resource).Inc()
		return fmt.Errorf("unmarshal wearable %s response: %w", resource, err)
	}

	if err := c.cache.Set(cacheKey, respBytes, cacheExpire); err != nil {
		log.Errorf("failed to write wearable cache for %s: %s", path, err)
	}

	return nil
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read wearable api response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Errorf("wearable api %s: status %d", path, resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrNoData, resp.StatusCode)
	}

	return respBytes, nil
}
