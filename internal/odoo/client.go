package odoo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kolo/xmlrpc"

	apperrors "github.com/utafrali/OdooGateway/pkg/errors"
)

// Odoo exposes two XML-RPC endpoints: common for the authentication
// handshake and object for model calls.
const (
	commonEndpoint = "/xmlrpc/2/common"
	objectEndpoint = "/xmlrpc/2/object"
)

// Config holds the connection settings for one Odoo backend.
type Config struct {
	URL      string
	Database string
	Username string
	APIKey   string
}

// Executor is the minimal remote surface the services depend on. The
// concrete Client implements it; tests substitute a fake.
type Executor interface {
	ExecuteKw(ctx context.Context, model, method string, args []any, kw map[string]any) (any, error)
}

// Client is the authenticated XML-RPC connection to one Odoo database. It is
// created once at startup, authenticated once, and shared read-only by all
// requests for the process lifetime.
type Client struct {
	common *xmlrpc.Client
	object *xmlrpc.Client
	cfg    Config
	policy Policy
	logger *slog.Logger

	// uid is the numeric user id returned by the authentication handshake.
	// Written once by Authenticate before the server starts serving.
	uid int64
}

// NewClient builds an unauthenticated client. Authenticate must be called
// before any ExecuteKw.
func NewClient(cfg Config, transportCfg TransportConfig, logger *slog.Logger) (*Client, error) {
	transport := NewTransport(transportCfg, logger)

	common, err := xmlrpc.NewClient(cfg.URL+commonEndpoint, transport)
	if err != nil {
		return nil, fmt.Errorf("create common endpoint client: %w", err)
	}
	object, err := xmlrpc.NewClient(cfg.URL+objectEndpoint, transport)
	if err != nil {
		return nil, fmt.Errorf("create object endpoint client: %w", err)
	}

	return &Client{
		common: common,
		object: object,
		cfg:    cfg,
		policy: ReadOnlyPolicy(),
		logger: logger,
	}, nil
}

// Authenticate performs the startup handshake and stores the session uid.
// Odoo returns the integer uid on success and false on bad credentials.
func (c *Client) Authenticate(ctx context.Context) error {
	var reply any
	err := c.common.Call("authenticate", []any{
		c.cfg.Database, c.cfg.Username, c.cfg.APIKey, map[string]any{},
	}, &reply)
	if err != nil {
		return apperrors.RemoteUnavailable(fmt.Errorf("authenticate: %w", err))
	}

	switch uid := reply.(type) {
	case int64:
		if uid <= 0 {
			return fmt.Errorf("odoo authentication failed (check database/username/API key)")
		}
		c.uid = uid
	case int:
		if uid <= 0 {
			return fmt.Errorf("odoo authentication failed (check database/username/API key)")
		}
		c.uid = int64(uid)
	default:
		// Odoo signals rejection with a boolean false.
		return fmt.Errorf("odoo authentication failed (check database/username/API key)")
	}

	c.logger.InfoContext(ctx, "odoo session established",
		slog.String("database", c.cfg.Database),
		slog.String("username", c.cfg.Username),
		slog.Int64("uid", c.uid),
	)
	return nil
}

// Ping checks connectivity by asking the unauthenticated common endpoint for
// its version. Used by the readiness probe.
func (c *Client) Ping(_ context.Context) error {
	var reply any
	if err := c.common.Call("version", nil, &reply); err != nil {
		return fmt.Errorf("odoo version check: %w", err)
	}
	return nil
}

// ExecuteKw invokes a model method via execute_kw after checking it against
// the read-only policy. Odoo faults surface as RemoteFault client errors
// carrying the fault text, model, and method; transport failures surface as
// RemoteUnavailable.
//
// The XML-RPC transport has no per-call cancellation; the context scopes
// logging and tracing while the shared transport enforces deadlines.
func (c *Client) ExecuteKw(ctx context.Context, model, method string, args []any, kw map[string]any) (any, error) {
	if err := c.policy.Authorize(method); err != nil {
		return nil, err
	}

	if args == nil {
		args = []any{}
	}
	if kw == nil {
		kw = map[string]any{}
	}

	start := time.Now()
	var reply any
	err := c.object.Call("execute_kw", []any{
		c.cfg.Database, c.uid, c.cfg.APIKey, model, method, args, kw,
	}, &reply)
	odooCallDuration.WithLabelValues(model, method).Observe(time.Since(start).Seconds())

	if err != nil {
		var fault xmlrpc.FaultError
		if errors.As(err, &fault) {
			odooCallsTotal.WithLabelValues(model, method, "fault").Inc()
			c.logger.WarnContext(ctx, "odoo fault",
				slog.String("model", model),
				slog.String("method", method),
				slog.String("fault", fault.String),
			)
			return nil, apperrors.RemoteFault(model, method, fault.String)
		}

		odooCallsTotal.WithLabelValues(model, method, "error").Inc()
		return nil, apperrors.RemoteUnavailable(fmt.Errorf("%s.%s: %w", model, method, err))
	}

	odooCallsTotal.WithLabelValues(model, method, "ok").Inc()
	return reply, nil
}
