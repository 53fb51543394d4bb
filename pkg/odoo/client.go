package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fieldops/fieldops-pos/pkg/config"
	"github.com/fieldops/fieldops-pos/pkg/logger"
)

const (
	rpcPath = "/jsonrpc"

	serviceCommon = "common"
	serviceObject = "object"
)

// ErrAuthentication is returned when the ERP rejects the configured credentials.
var ErrAuthentication = errors.New("odoo: authentication failed")

// CallObserver receives one callback per JSON-RPC round trip.
type CallObserver interface {
	ObserveCall(model, method string, err error, duration time.Duration)
}

// Client talks to an Odoo-compatible ERP over JSON-RPC 2.0.
type Client struct {
	endpoint string
	database string
	login    string
	password string

	http     *http.Client
	logg     *logger.Logger
	observer CallObserver

	nextID atomic.Int64

	uid    atomic.Int64
	logins singleflight.Group
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a logger used for per-call debug entries.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) { c.logg = logg }
}

// WithObserver attaches a metrics observer.
func WithObserver(observer CallObserver) Option {
	return func(c *Client) { c.observer = observer }
}

// New builds a client from the ERP configuration. Authentication happens lazily on the first call.
func New(cfg config.ERPConfig, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, fmt.Errorf("odoo: url is required")
	}
	if strings.TrimSpace(cfg.Database) == "" {
		return nil, fmt.Errorf("odoo: database is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		endpoint: base + rpcPath,
		database: cfg.Database,
		login:    cfg.Login,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

func (c *Client) call(ctx context.Context, service, method string, args []any, out any) error {
	if c == nil || c.http == nil || c.endpoint == "" {
		return fmt.Errorf("odoo: client not configured")
	}

	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return fmt.Errorf("odoo: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("odoo: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("odoo: http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode}
	}

	var rr rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return fmt.Errorf("odoo: decode response: %w", err)
	}
	if rr.Error != nil {
		return rr.Error
	}

	if out != nil {
		if err := json.Unmarshal(rr.Result, out); err != nil {
			return fmt.Errorf("odoo: unmarshal result: %w", err)
		}
	}
	return nil
}

// authenticate returns the cached uid. Concurrent callers share a single login round trip
// and stop waiting when their own ctx is done.
func (c *Client) authenticate(ctx context.Context) (int64, error) {
	if uid := c.uid.Load(); uid > 0 {
		return uid, nil
	}

	ch := c.logins.DoChan("login", func() (any, error) {
		if uid := c.uid.Load(); uid > 0 {
			return uid, nil
		}
		// the shared login outlives any single waiter
		loginCtx := context.WithoutCancel(ctx)
		var raw json.RawMessage
		if err := c.call(loginCtx, serviceCommon, "login", []any{c.database, c.login, c.password}, &raw); err != nil {
			return int64(0), fmt.Errorf("odoo: login: %w", err)
		}
		// a rejected login yields `false` instead of a uid
		var uid int64
		if err := json.Unmarshal(raw, &uid); err != nil || uid <= 0 {
			return int64(0), ErrAuthentication
		}
		c.uid.Store(uid)
		return uid, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int64), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// ExecuteKW runs `model.method(*args, **kwargs)` as the authenticated user.
func (c *Client) ExecuteKW(ctx context.Context, model, method string, args []any, kwargs map[string]any, out any) (err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveCall(model, method, err, time.Since(start))
		}
		if c.logg != nil {
			logCtx := c.logg.WithFields(ctx, map[string]any{
				"erp_model":   model,
				"erp_method":  method,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			if err != nil {
				c.logg.Warn(logCtx, fmt.Sprintf("erp call failed: %v", err))
			} else {
				c.logg.Debug(logCtx, "erp call completed")
			}
		}
	}()

	uid, err := c.authenticate(ctx)
	if err != nil {
		return err
	}
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return c.call(ctx, serviceObject, "execute_kw", []any{c.database, uid, c.password, model, method, args, kwargs}, out)
}

// Ping checks the ERP answers without requiring credentials.
func (c *Client) Ping(ctx context.Context) error {
	var version json.RawMessage
	return c.call(ctx, serviceCommon, "version", []any{}, &version)
}
