// Package eapi provides a client for the Arista EOS command API:
// JSON-RPC 2.0 "runCmds" requests over HTTPS, plus config-session and
// SCP file-staging helpers used by configuration management.
package eapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/netmatch-network/netmatch/pkg/util"
)

const (
	defaultPort    = 443
	defaultTimeout = 60 * time.Second
	probeTimeout   = 5 * time.Second

	formatJSON = "json"
	formatText = "text"
)

// Client issues CLI command batches to a single EOS device over eAPI.
// A Client is safe for concurrent use.
type Client struct {
	host     string
	port     int
	username string
	password string
	insecure bool
	timeout  time.Duration
	url      string
	http     *http.Client
	reqID    atomic.Uint64
}

// Option adjusts client construction.
type Option func(*Client)

// WithCreds sets the username and password for HTTP basic auth.
func WithCreds(user, pass string) Option {
	return func(c *Client) {
		c.username = user
		c.password = pass
	}
}

// WithTimeout overrides the default 60s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithPort overrides the default HTTPS port 443.
func WithPort(port int) Option {
	return func(c *Client) {
		c.port = port
	}
}

// WithInsecure disables TLS certificate verification. Switch eAPI
// usually runs with a self-signed certificate.
func WithInsecure(insecure bool) Option {
	return func(c *Client) {
		c.insecure = insecure
	}
}

// New creates an eAPI client for the given host. The connection is not
// established until the first request.
func New(host string, opts ...Option) *Client {
	c := &Client{
		host:    host,
		port:    defaultPort,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.url = fmt.Sprintf("https://%s/command-api", net.JoinHostPort(host, strconv.Itoa(c.port)))

	transport := &http.Transport{
		MaxIdleConns:        4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if c.insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	c.http = &http.Client{
		Timeout:   c.timeout,
		Transport: transport,
	}
	return c
}

// Host returns the device host the client was created for.
func (c *Client) Host() string {
	return c.host
}

// CheckConnection probes TCP reachability of the eAPI port without
// issuing an RPC.
func (c *Client) CheckConnection(ctx context.Context) error {
	d := net.Dialer{Timeout: probeTimeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(c.host, strconv.Itoa(c.port)))
	if err != nil {
		return fmt.Errorf("%s: eAPI port unreachable: %w", c.host, err)
	}
	return conn.Close()
}

// Close releases any idle connections held by the client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// Run executes CLI commands in one batch and returns the structured
// JSON result of each command, in command order.
func (c *Client) Run(ctx context.Context, commands []string) ([]json.RawMessage, error) {
	return c.runCmds(ctx, commands, formatJSON)
}

// RunText executes CLI commands with text-format output and returns
// the raw terminal output of each command, in command order. Used for
// commands without a structured model, such as "show running-config".
func (c *Client) RunText(ctx context.Context, commands []string) ([]string, error) {
	raw, err := c.runCmds(ctx, commands, formatText)
	if err != nil {
		return nil, err
	}
	outputs := make([]string, len(raw))
	for i, r := range raw {
		var res struct {
			Output string `json:"output"`
		}
		if err := json.Unmarshal(r, &res); err != nil {
			return nil, fmt.Errorf("decode text output for %q: %w", commands[i], err)
		}
		outputs[i] = res.Output
	}
	return outputs, nil
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      uint64    `json:"id"`
}

type rpcParams struct {
	Version int      `json:"version"`
	Cmds    []string `json:"cmds"`
	Format  string   `json:"format"`
}

type rpcResponse struct {
	Result []json.RawMessage `json:"result"`
	Error  *rpcError         `json:"error"`
}

type rpcError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    []json.RawMessage `json:"data"`
}

func (c *Client) runCmds(ctx context.Context, commands []string, format string) ([]json.RawMessage, error) {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "runCmds",
		Params:  rpcParams{Version: 1, Cmds: commands, Format: format},
		ID:      c.reqID.Add(1),
	})
	if err != nil {
		return nil, fmt.Errorf("encode eAPI request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build eAPI request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	util.WithDevice(c.host).Debugf("eAPI runCmds (%s): %v", format, commands)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eAPI %s: %w", c.host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return nil, fmt.Errorf("eAPI %s: unexpected status %d: %s",
			c.host, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode eAPI response from %s: %w", c.host, err)
	}
	if out.Error != nil {
		return nil, newCommandError(commands, out.Error)
	}
	if len(out.Result) != len(commands) {
		return nil, fmt.Errorf("eAPI %s: %d results for %d commands",
			c.host, len(out.Result), len(commands))
	}
	return out.Result, nil
}

// CommandError reports a CLI command that the device rejected. EOS
// stops a batch at the first failing command, so Index is also the
// count of commands that ran before the failure.
type CommandError struct {
	Command string // the CLI command that failed, empty if unknown
	Index   int    // position of the failing command in the batch
	Code    int    // eAPI error code
	Message string // device-reported error text
}

func (e *CommandError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("eAPI error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("command %q failed: %s (code %d)", e.Command, e.Message, e.Code)
}

// newCommandError maps a JSON-RPC error to a CommandError. The error
// data carries one entry per attempted command; the last entry belongs
// to the command that failed and may list detailed error strings.
func newCommandError(commands []string, rpcErr *rpcError) error {
	ce := &CommandError{
		Index:   len(rpcErr.Data) - 1,
		Code:    rpcErr.Code,
		Message: rpcErr.Message,
	}
	if ce.Index >= 0 && ce.Index < len(commands) {
		ce.Command = commands[ce.Index]
	}
	if len(rpcErr.Data) > 0 {
		var detail struct {
			Errors []string `json:"errors"`
		}
		if err := json.Unmarshal(rpcErr.Data[len(rpcErr.Data)-1], &detail); err == nil && len(detail.Errors) > 0 {
			ce.Message = strings.Join(detail.Errors, "; ")
		}
	}
	return ce
}
