// Package provision prepares the log search stack for the generated data:
// it waits for Elasticsearch and Kibana, then creates the index template,
// the data view and a starter dashboard.
package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultElasticsearchURL = "http://elasticsearch:9200"
	DefaultKibanaURL        = "http://kibana:5601"
	DefaultPollInterval     = 5 * time.Second
	DefaultSettle           = 30 * time.Second
	DefaultRequestTimeout   = 30 * time.Second

	IndexPattern  = "banking-logs-*"
	TemplateName  = "banking-logs"
	DataViewName  = "Banking Logs"
	DashboardName = "Banking Security Overview"
)

// StatusError is returned when a step gets an unexpected HTTP status.
type StatusError struct {
	Step   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Step, e.Status, e.Body)
}

// Config configures a Client. Zero values fall back to the defaults.
type Config struct {
	ElasticsearchURL string
	KibanaURL        string
	PollInterval     time.Duration
	Settle           time.Duration
	RequestTimeout   time.Duration
	HTTPClient       *http.Client
}

// Client talks to Elasticsearch and Kibana.
type Client struct {
	es, kibana string
	settle     time.Duration
	http       *http.Client
	poll       *rate.Limiter
	log        *slog.Logger
}

// New returns a Client.
func New(cfg Config) *Client {
	if cfg.ElasticsearchURL == "" {
		cfg.ElasticsearchURL = DefaultElasticsearchURL
	}
	if cfg.KibanaURL == "" {
		cfg.KibanaURL = DefaultKibanaURL
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Settle < 0 {
		cfg.Settle = 0
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &Client{
		es:     strings.TrimRight(cfg.ElasticsearchURL, "/"),
		kibana: strings.TrimRight(cfg.KibanaURL, "/"),
		settle: cfg.Settle,
		http:   cfg.HTTPClient,
		poll:   rate.NewLimiter(rate.Every(cfg.PollInterval), 1),
		log:    slog.Default().With("component", "provision"),
	}
}

// WaitReady blocks until Elasticsearch and then Kibana answer 200 on their
// health endpoints. Only ctx ends the wait.
func (c *Client) WaitReady(ctx context.Context) error {
	if err := c.waitFor(ctx, "elasticsearch", c.es+"/_cluster/health"); err != nil {
		return err
	}
	return c.waitFor(ctx, "kibana", c.kibana+"/api/status")
}

func (c *Client) waitFor(ctx context.Context, name, url string) error {
	c.log.Info("waiting for service", "service", name)
	for {
		if err := c.poll.Wait(ctx); err != nil {
			return fmt.Errorf("wait for %s: %w", name, err)
		}
		status, _, err := c.do(ctx, http.MethodGet, url, nil)
		if err == nil && status == http.StatusOK {
			c.log.Info("service ready", "service", name)
			return nil
		}
		c.log.Debug("service not ready", "service", name, "status", status, "err", err)
	}
}

func (c *Client) do(ctx context.Context, method, url string, body interface{}) (int, string, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, "", err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("kbn-xsrf", "true")
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, string(text), nil
}

func (c *Client) step(ctx context.Context, name, method, url string, body interface{}, ok ...int) error {
	status, text, err := c.do(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	for _, s := range ok {
		if status == s {
			return nil
		}
	}
	return &StatusError{Step: name, Status: status, Body: text}
}

// EnsureIndexTemplate installs the field mapping for the log indices.
// 200 and 201 count as success.
func (c *Client) EnsureIndexTemplate(ctx context.Context) error {
	return c.step(ctx, "index_template", http.MethodPut, c.es+"/_index_template/"+TemplateName,
		indexTemplate(), http.StatusOK, http.StatusCreated)
}

// EnsureDataView creates the Kibana data view. 409 means it already exists.
func (c *Client) EnsureDataView(ctx context.Context) error {
	body := map[string]interface{}{
		"data_view": map[string]string{
			"title":         IndexPattern,
			"name":          DataViewName,
			"timeFieldName": "@timestamp",
		},
	}
	return c.step(ctx, "data_view", http.MethodPost, c.kibana+"/api/data_views/data_view",
		body, http.StatusOK, http.StatusConflict)
}

// EnsureDashboard creates an empty starter dashboard. 409 means it already exists.
func (c *Client) EnsureDashboard(ctx context.Context) error {
	body := map[string]interface{}{
		"attributes": map[string]interface{}{
			"title":       DashboardName,
			"description": "Overview of banking system logs and security events",
			"panelsJSON":  "[]",
			"optionsJSON": `{"useMargins":true,"syncColors":false,"hidePanelTitles":false}`,
			"version":     1,
			"timeRestore": false,
			"kibanaSavedObjectMeta": map[string]string{
				"searchSourceJSON": `{"query":{"query":"","language":"kuery"},"filter":[]}`,
			},
		},
	}
	return c.step(ctx, "dashboard", http.MethodPost, c.kibana+"/api/saved_objects/dashboard",
		body, http.StatusOK, http.StatusConflict)
}

func indexTemplate() map[string]interface{} {
	props := map[string]interface{}{}
	for field, typ := range map[string]string{
		"@timestamp": "date",
		"timestamp":  "date",
		"service":    "keyword",
		"level":      "keyword",
		"message":    "text",
		"user_id":    "keyword",
		"amount":     "double",
		"currency":   "keyword",
		"client_ip":  "ip",
		"risk_score": "integer",
		"event_type": "keyword",
		"status":     "keyword",
		"error_code": "keyword",
	} {
		props[field] = map[string]string{"type": typ}
	}
	return map[string]interface{}{
		"index_patterns": []string{IndexPattern},
		"template": map[string]interface{}{
			"settings": map[string]int{
				"number_of_shards":   1,
				"number_of_replicas": 0,
			},
			"mappings": map[string]interface{}{"properties": props},
		},
	}
}

// StepResult is the outcome of one provisioning step.
type StepResult struct {
	Step string
	Err  error
}

// Run waits for the stack, lets it settle, then runs every step. A failed
// step is logged and the next one still runs. The returned error is non-nil
// only when ctx ends the run.
func (c *Client) Run(ctx context.Context) ([]StepResult, error) {
	if err := c.WaitReady(ctx); err != nil {
		return nil, err
	}
	if c.settle > 0 {
		c.log.Info("waiting for full initialization", "settle", c.settle)
		t := time.NewTimer(c.settle)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"index_template", c.EnsureIndexTemplate},
		{"data_view", c.EnsureDataView},
		{"dashboard", c.EnsureDashboard},
	}
	results := make([]StepResult, 0, len(steps))
	for _, s := range steps {
		err := s.fn(ctx)
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		if err != nil {
			c.log.Warn("provisioning step failed, continuing", "step", s.name, "err", err)
		} else {
			c.log.Info("provisioning step done", "step", s.name)
		}
		results = append(results, StepResult{Step: s.name, Err: err})
	}
	return results, nil
}
