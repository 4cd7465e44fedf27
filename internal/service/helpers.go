package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/maheshrc27/multipost-api/internal/models"
	"github.com/maheshrc27/multipost-api/internal/transfer"
	"golang.org/x/oauth2"
)

func GetExpiresAt(expiresIn int64) time.Time {
	if expiresIn <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}

// apiRequest is one JSON round trip against a platform API.
type apiRequest struct {
	platform models.Platform
	op       string
	method   string
	url      string
	bearer   string
	payload  any
}

// do sends the request and decodes a 2xx body into out. Non-2xx answers become
// an UpstreamError carrying the body, network failures a TransportError.
func (r apiRequest) do(ctx context.Context, client *http.Client, out any) error {
	var body io.Reader
	if r.payload != nil {
		b, err := json.Marshal(r.payload)
		if err != nil {
			return fmt.Errorf("error marshalling payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	if r.payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearer)
	}

	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return &TransportError{Platform: r.platform, Op: r.op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Platform: r.platform, Op: r.op, Err: fmt.Errorf("error reading response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Info("upstream request failed", "platform", r.platform, "op", r.op, "status", resp.StatusCode)
		upErr := &UpstreamError{Platform: r.platform, Op: r.op, Status: resp.StatusCode, Body: string(respBody)}
		var graphErr transfer.GraphErrorResponse
		if json.Unmarshal(respBody, &graphErr) == nil {
			upErr.Message = graphErr.Error.Message
		}
		return upErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error parsing %s response: %w", r.op, err)
	}
	return nil
}

// exchangeError maps an oauth2 token endpoint failure onto the upstream error types.
func exchangeError(platform models.Platform, op string, err error) error {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) && rErr.Response != nil {
		return &UpstreamError{Platform: platform, Op: op, Status: rErr.Response.StatusCode, Body: string(rErr.Body)}
	}
	return &TransportError{Platform: platform, Op: op, Err: err}
}

// tokenExpiresIn reads expires_in from the raw token response, falling back to Expiry.
func tokenExpiresIn(token *oauth2.Token) int64 {
	switch v := token.Extra("expires_in").(type) {
	case float64:
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	if token.Expiry.IsZero() {
		return 0
	}
	return int64(time.Until(token.Expiry).Round(time.Second).Seconds())
}
