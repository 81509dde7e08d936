/*
Copyright 2026 the Test Hotel Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//go:generate mockgen -source=api_client.go -destination=mock/interfaces.go -package=mock

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"

	"github.com/testhotel/client-api-tests/pkg/constants"
)

// HTTPDoer executes HTTP requests, *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type APIClient struct {
	baseURL   string
	client    HTTPDoer
	config    *TestConfig
	endpoints *Endpoints
}

func NewAPIClient(config *TestConfig) *APIClient {
	return NewAPIClientWithDoer(config, &http.Client{
		Timeout: config.RequestTimeout,
	})
}

func NewAPIClientWithDoer(config *TestConfig, doer HTTPDoer) *APIClient {
	return &APIClient{
		baseURL:   strings.TrimSuffix(config.BaseURL, "/"),
		client:    doer,
		config:    config,
		endpoints: NewEndpoints(),
	}
}

// Endpoints exposes the path builders for callers issuing raw requests.
func (c *APIClient) Endpoints() *Endpoints {
	return c.endpoints
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s traceparent=%s error=%v\n", method, path, context, duration, traceParent, err)
	c.logTraceContext(traceParent)
}

// logUnexpectedStatus logs a non-2xx HTTP status code.
func (c *APIClient) logUnexpectedStatus(method, path string, actualStatus int, body, traceParent string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] UNEXPECTED STATUS expected=2xx got=%d body=%s traceparent=%s\n", method, path, actualStatus, body, traceParent)
	c.logTraceContext(traceParent)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID.
// Every request gets its own so a failure can be found in the service logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

type request struct {
	method string
	path   string

	// auth is serialized into the x-user-auth header when set.
	auth *AuthHeader

	// body is marshaled as JSON when set.
	body any

	// sensitive request and response bodies are never logged.
	sensitive bool

	// requireSuccess turns any non-2xx response into an UnexpectedStatusError.
	requireSuccess bool
}

//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) doRequest(ctx context.Context, r *request) (*RawResponse, error) {
	var body io.Reader

	var bodyBytes []byte

	if r.body != nil {
		var err error

		if bodyBytes, err = json.Marshal(r.body); err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		body = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("Content-Type", "application/json")

	if r.auth != nil {
		authBytes, err := json.Marshal(r.auth)
		if err != nil {
			return nil, fmt.Errorf("marshaling auth header: %w", err)
		}

		req.Header.Set(constants.AuthHeader, string(authBytes))
	}

	if c.config.DebugLogging && len(bodyBytes) > 0 && !r.sensitive {
		ginkgo.GinkgoWriter.Printf("[%s %s] request body: %s\n", r.method, r.path, string(bodyBytes))
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(r.method, r.path, duration, traceParent, err, "http request failed")
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(r.method, r.path, duration, traceParent, err, fmt.Sprintf("reading response body status=%d", resp.StatusCode))
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.config.LogRequests {
		ginkgo.GinkgoWriter.Printf("[%s %s] status=%d duration=%s traceparent=%s\n", r.method, r.path, resp.StatusCode, duration, traceParent)
	}

	if c.config.LogResponses && len(respBody) > 0 && !r.sensitive {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", r.method, r.path, string(respBody))
	}

	result := &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		TraceID:    extractTraceID(traceParent),
	}

	if r.requireSuccess && !result.OK() {
		c.logUnexpectedStatus(r.method, r.path, resp.StatusCode, string(respBody), traceParent)

		return result, &UnexpectedStatusError{
			Method:     r.method,
			Path:       r.path,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			TraceID:    result.TraceID,
		}
	}

	return result, nil
}

// Do issues a raw request, optionally authenticated, and returns whatever
// the service responded with.
func (c *APIClient) Do(ctx context.Context, method, path string, auth *AuthHeader, body any) (*RawResponse, error) {
	return c.doRequest(ctx, &request{
		method: method,
		path:   path,
		auth:   auth,
		body:   body,
	})
}

// Login exchanges the session's credentials for a token.  The status is
// not checked, callers inspect the returned response themselves.  On a 2xx
// response the token is stored in the session.
func (c *APIClient) Login(ctx context.Context, session *Session) (*RawResponse, error) {
	resp, err := c.doRequest(ctx, &request{
		method: http.MethodPost,
		path:   c.endpoints.Login(),
		body: &loginRequest{
			Username: session.credentials.Username,
			Password: session.credentials.Password,
		},
		sensitive: true,
	})
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	if !resp.OK() {
		return resp, nil
	}

	var login LoginResponse
	if err := resp.DecodeJSON(&login); err != nil {
		return resp, fmt.Errorf("logging in: %w", err)
	}

	session.token = login.Token

	return resp, nil
}

// ListClients lists all clients.
func (c *APIClient) ListClients(ctx context.Context, session *Session) ([]ClientRecord, error) {
	resp, err := c.doRequest(ctx, &request{
		method:         http.MethodGet,
		path:           c.endpoints.ListClients(),
		auth:           session.AuthHeader(),
		requireSuccess: true,
	})
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	var clients []ClientRecord
	if err := resp.DecodeJSON(&clients); err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	return clients, nil
}

// CreateClient creates a new client, the result carries the server assigned
// ID and creation time.
func (c *APIClient) CreateClient(ctx context.Context, session *Session, payload *ClientPayload) (*ClientRecord, error) {
	return c.writeClient(ctx, session, http.MethodPost, c.endpoints.CreateClient(), payload, "creating client")
}

// UpdateClient replaces all writable fields of a client.
func (c *APIClient) UpdateClient(ctx context.Context, session *Session, clientID int, payload *ClientPayload) (*ClientRecord, error) {
	return c.writeClient(ctx, session, http.MethodPut, c.endpoints.UpdateClient(clientID), payload, fmt.Sprintf("updating client %d", clientID))
}

func (c *APIClient) writeClient(ctx context.Context, session *Session, method, path string, payload *ClientPayload, operation string) (*ClientRecord, error) {
	resp, err := c.doRequest(ctx, &request{
		method:         method,
		path:           path,
		auth:           session.AuthHeader(),
		body:           payload,
		requireSuccess: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	var client ClientRecord
	if err := resp.DecodeJSON(&client); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	return &client, nil
}

// GetClient retrieves a single client.
func (c *APIClient) GetClient(ctx context.Context, session *Session, clientID int) (*ClientRecord, error) {
	resp, err := c.doRequest(ctx, &request{
		method:         http.MethodGet,
		path:           c.endpoints.GetClient(clientID),
		auth:           session.AuthHeader(),
		requireSuccess: true,
	})
	if err != nil {
		return nil, fmt.Errorf("getting client %d: %w", clientID, err)
	}

	var client ClientRecord
	if err := resp.DecodeJSON(&client); err != nil {
		return nil, fmt.Errorf("getting client %d: %w", clientID, err)
	}

	return &client, nil
}

// DeleteClient deletes a client.  The response is always returned as-is so
// callers can check both the status and the DeleteResult body.
func (c *APIClient) DeleteClient(ctx context.Context, session *Session, clientID int) (*RawResponse, error) {
	resp, err := c.Do(ctx, http.MethodDelete, c.endpoints.DeleteClient(clientID), session.AuthHeader(), nil)
	if err != nil {
		return nil, fmt.Errorf("deleting client %d: %w", clientID, err)
	}

	return resp, nil
}

// DeleteClientWithoutAuth attempts a delete with an identity and token the
// service never issued, to probe the authorization boundary.
func (c *APIClient) DeleteClientWithoutAuth(ctx context.Context, clientID int) (*RawResponse, error) {
	resp, err := c.Do(ctx, http.MethodDelete, c.endpoints.DeleteClient(clientID), InvalidAuthHeader(), nil)
	if err != nil {
		return nil, fmt.Errorf("deleting client %d without authorization: %w", clientID, err)
	}

	return resp, nil
}
