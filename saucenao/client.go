// Package saucenao submits images and URLs to the SauceNAO search page and
// classifies what comes back.
package saucenao

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"saucenao/acquire"
	"saucenao/config"
	"saucenao/databases"
	"saucenao/logging"
	"saucenao/models"
)

// Searcher is implemented by anything that can run a search
type Searcher interface {
	Search(ctx context.Context, in models.SearchInput, filter databases.Filter) models.Outcome
}

// Options configures a Client. Zero values fall back to the defaults in the
// config package.
type Options struct {
	Endpoint          string
	Hide              string
	UserAgent         string
	Timeout           time.Duration
	MaxResponseBytes  int64
	MinInterval       time.Duration
	MaxImageDimension int
	HTTPClient        *http.Client
}

// OptionsFromConfig maps the runtime configuration onto client options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Endpoint:          cfg.Endpoint,
		Hide:              cfg.Hide,
		UserAgent:         cfg.UserAgent,
		Timeout:           cfg.Timeout(),
		MaxResponseBytes:  cfg.MaxResponseBytes,
		MinInterval:       cfg.MinInterval(),
		MaxImageDimension: cfg.MaxImageDimension,
	}
}

// Client talks to the search endpoint
type Client struct {
	endpoint          string
	hide              string
	userAgent         string
	maxResponseBytes  int64
	maxImageDimension int
	httpClient        *http.Client
	limiter           *rate.Limiter
	logger            *zap.Logger
}

var _ Searcher = (*Client)(nil)

// NewClient creates a search client
func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = config.DefaultEndpoint
	}
	if opts.Hide == "" {
		opts.Hide = config.DefaultHide
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	if opts.MaxResponseBytes <= 0 {
		opts.MaxResponseBytes = config.DefaultMaxResponseBytes
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTimeoutSeconds * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		endpoint:          opts.Endpoint,
		hide:              opts.Hide,
		userAgent:         opts.UserAgent,
		maxResponseBytes:  opts.MaxResponseBytes,
		maxImageDimension: opts.MaxImageDimension,
		httpClient:        httpClient,
		logger:            logger.Named("saucenao_client"),
	}
	if opts.MinInterval > 0 {
		c.limiter = rate.NewLimiter(rate.Every(opts.MinInterval), 1)
	}
	return c
}

// Search submits the input and classifies the response:
//
//	200 with a body          -> OK, body verbatim
//	429                      -> TooManyRequests
//	200 without a body       -> Interrupted
//	cancelled or timed out   -> Interrupted
//	anything else            -> GenericError
func (c *Client) Search(ctx context.Context, in models.SearchInput, filter databases.Filter) models.Outcome {
	requestID := uuid.NewString()
	opLogger := logging.WithOperation(c.logger, "saucenao.search", requestID)

	var image []byte
	if in.IsImage() {
		var err error
		image, err = acquire.EncodePNG(in, c.maxImageDimension)
		if err != nil {
			wrapped := logging.NewOperationError("saucenao.encode_image", requestID, err)
			opLogger.Error("unable to read image bitmap", zap.Error(wrapped))
			return models.GenericError(0, wrapped)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			opLogger.Debug("search abandoned while throttled", zap.Error(err))
			return models.Interrupted(logging.NewOperationError("saucenao.throttle", requestID, err))
		}
	}

	req, err := c.newRequest(ctx, in, image, filter)
	if err != nil {
		wrapped := logging.NewOperationError("saucenao.build_request", requestID, err)
		opLogger.Error("unable to build request", zap.Error(wrapped))
		return models.GenericError(0, wrapped)
	}

	opLogger.Debug("sending search request",
		zap.String("input", in.Kind.String()),
		zap.Ints("dbs", filter.Codes()),
		zap.Int("upload_bytes", len(image)),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportFailure(ctx, opLogger, requestID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return c.transportFailure(ctx, opLogger, requestID, err)
	}

	outcome := Classify(resp.StatusCode, string(body))
	// a cut off page is never handed out as a result
	if outcome.OK() && int64(len(body)) > c.maxResponseBytes {
		err := logging.NewOperationError("saucenao.search", requestID,
			fmt.Errorf("response exceeds %d bytes", c.maxResponseBytes))
		opLogger.Error("response too large", zap.Int64("max_response_bytes", c.maxResponseBytes))
		return models.GenericError(resp.StatusCode, err)
	}
	switch outcome.Status {
	case models.OutcomeOK:
		opLogger.Info("search finished",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_bytes", len(body)),
			zap.Duration("elapsed", time.Since(start)),
		)
	case models.OutcomeInterrupted:
		outcome.Err = logging.NewOperationError("saucenao.search", requestID, errEmptyBody)
		opLogger.Warn("empty response body", zap.Int("status", resp.StatusCode))
	default:
		outcome.Err = logging.NewOperationError("saucenao.search", requestID,
			fmt.Errorf("HTTP request returned code: %d", resp.StatusCode))
		opLogger.Error("HTTP request returned an error status", zap.Int("status", resp.StatusCode))
	}
	return outcome
}

func (c *Client) transportFailure(ctx context.Context, opLogger *zap.Logger, requestID string, err error) models.Outcome {
	wrapped := logging.NewOperationError("saucenao.search", requestID, err)
	if isInterruption(ctx, err) {
		opLogger.Info("search interrupted", zap.Error(wrapped))
		return models.Interrupted(wrapped)
	}
	opLogger.Error("unable to send HTTP request", zap.Error(wrapped))
	return models.GenericError(0, wrapped)
}
