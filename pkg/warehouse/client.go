package warehouse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hwine/lookml-generator/pkg/observability"
)

// Define static errors
var (
	ErrResponse         = errors.New("warehouse error")
	ErrTableNotFound    = errors.New("table not found")
	ErrInvalidTableName = errors.New("invalid table name")
)

// Column is one column of a warehouse table schema.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// queryResponse represents the JSON envelope returned by the warehouse
// HTTP interface.
type queryResponse struct {
	Data []json.RawMessage `json:"data"`
	Meta []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"meta"`
	Rows int `json:"rows"`
}

// Client defines the methods for interacting with the warehouse
type Client interface {
	// TableSchema returns the ordered column list of a fully qualified table
	TableSchema(ctx context.Context, table string) ([]Column, error)
	// Start verifies connectivity
	Start() error
	// Stop closes the client
	Stop() error
}

// client implements the Client interface using HTTP
type client struct {
	log          logrus.FieldLogger
	httpClient   *http.Client
	baseURL      string
	username     string
	password     string
	debug        bool
	queryTimeout time.Duration
}

// NewClient creates a new HTTP-based warehouse client
func NewClient(log logrus.FieldLogger, cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.SetDefaults()

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     cfg.KeepAlive,
		DisableKeepAlives:   false,
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   0, // Per-request timeouts are set from the query timeout
	}

	c := &client{
		log:          log.WithField("component", "warehouse-http"),
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		username:     cfg.Username,
		password:     cfg.Password,
		debug:        cfg.Debug,
		queryTimeout: cfg.QueryTimeout,
	}

	return c, nil
}

func (c *client) Start() error {
	// Test connectivity
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := c.execute(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}

	c.log.Info("Connected to warehouse HTTP interface")

	return nil
}

func (c *client) Stop() error {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}

	c.log.Info("Closed warehouse HTTP client")

	return nil
}

// TableSchema queries INFORMATION_SCHEMA for the columns of a fully
// qualified table reference like project.dataset.table.
func (c *client) TableSchema(ctx context.Context, table string) ([]Column, error) {
	scope, name, err := splitTable(table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT column_name, data_type FROM `%s`.INFORMATION_SCHEMA.COLUMNS WHERE table_name = '%s' ORDER BY ordinal_position",
		scope, name,
	)

	body, err := c.execute(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("schema query failed: %w", err)
	}

	var result queryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	columns := make([]Column, 0, len(result.Data))

	for i, raw := range result.Data {
		var row struct {
			ColumnName string `json:"column_name"`
			DataType   string `json:"data_type"`
		}

		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("failed to unmarshal row %d: %w", i, err)
		}

		columns = append(columns, Column{Name: row.ColumnName, Type: row.DataType})
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	return columns, nil
}

func (c *client) execute(ctx context.Context, query string) (body []byte, err error) {
	start := time.Now()

	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}

		observability.RecordSchemaQuery(status, time.Since(start).Seconds())
	}()

	reqCtx, cancel := context.WithTimeout(ctx, c.getTimeout(ctx))
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "application/json")

	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	if c.debug {
		c.log.WithField("query", query).Debug("Executing warehouse query")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.WithError(closeErr).Debug("Failed to close response body")
		}
	}()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Try to parse a structured error message
		var errorResp struct {
			Error string `json:"error"`
		}

		if jsonErr := json.Unmarshal(body, &errorResp); jsonErr == nil && errorResp.Error != "" {
			return nil, fmt.Errorf("%w (status %d): %s", ErrResponse, resp.StatusCode, errorResp.Error)
		}

		return nil, fmt.Errorf("%w (status %d): %s", ErrResponse, resp.StatusCode, string(body))
	}

	return body, nil
}

func (c *client) getTimeout(ctx context.Context) time.Duration {
	// An existing context deadline wins over the configured timeout
	if deadline, ok := ctx.Deadline(); ok {
		return time.Until(deadline)
	}

	return c.queryTimeout
}

// splitTable splits a table reference into its dataset scope and table
// name. Backticks are tolerated around the whole reference.
func splitTable(table string) (string, string, error) {
	trimmed := strings.Trim(table, "`")

	idx := strings.LastIndex(trimmed, ".")
	if idx <= 0 || idx == len(trimmed)-1 {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidTableName, table)
	}

	return trimmed[:idx], trimmed[idx+1:], nil
}
