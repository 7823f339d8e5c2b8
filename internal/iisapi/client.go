package iisapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"roomboard/internal/models"
)

// Client talks to the IIS schedule API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	redis    *redis.Client
	cacheTTL time.Duration
}

// New constructs a client for the given API base URL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// UseRedisCache configures optional Redis caching for GET endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// CurrentWeek fetches the institution's currently active cycle week. The
// endpoint returns a bare integer.
func (c *Client) CurrentWeek(ctx context.Context) (int, error) {
	endpoint := fmt.Sprintf("%s/schedule/current-week", c.baseURL)
	cacheKey := "iis:current-week"
	var week int

	if c.readCache(ctx, cacheKey, &week) {
		return week, nil
	}

	if err := c.doGet(ctx, endpoint, &week); err != nil {
		return 0, err
	}
	c.writeCache(ctx, cacheKey, week)
	return week, nil
}

// Employees fetches the full teacher roster.
func (c *Client) Employees(ctx context.Context) ([]models.Teacher, error) {
	endpoint := fmt.Sprintf("%s/employees/all", c.baseURL)
	cacheKey := "iis:employees"
	var teachers []models.Teacher

	if c.readCache(ctx, cacheKey, &teachers) {
		return teachers, nil
	}

	if err := c.doGet(ctx, endpoint, &teachers); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, teachers)
	return teachers, nil
}

// EmployeeSchedule fetches both schedule revisions of one teacher.
func (c *Client) EmployeeSchedule(ctx context.Context, urlID string) (*models.TeacherSchedule, error) {
	endpoint := fmt.Sprintf("%s/employees/schedule/%s", c.baseURL, url.PathEscape(urlID))
	cacheKey := fmt.Sprintf("iis:schedule:%s", urlID)
	var sched models.TeacherSchedule

	if c.readCache(ctx, cacheKey, &sched) {
		return &sched, nil
	}

	if err := c.doGet(ctx, endpoint, &sched); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, sched)
	return &sched, nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d from %s", resp.StatusCode, endpoint)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
