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

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CreatedLayout is the format the service uses for creation timestamps.
const CreatedLayout = "2006-01-02T15:04:05.000Z"

// ClientRecord is a client as returned by the service.
type ClientRecord struct {
	ID        int    `json:"id"`
	Created   string `json:"created"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
}

// CreatedTime parses the creation timestamp, which must carry milliseconds.
func (r *ClientRecord) CreatedTime() (time.Time, error) {
	t, err := time.Parse(CreatedLayout, r.Created)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing created timestamp %q: %w", r.Created, err)
	}

	return t, nil
}

// ClientPayload is the writable part of a client.
type ClientPayload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// AuthHeader is serialized as JSON into the x-user-auth header.
type AuthHeader struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// DeleteResult is the body of a successful delete.
type DeleteResult struct {
	OK bool `json:"ok"`
}

// RawResponse gives callers the status and body of a call whose
// outcome they want to inspect themselves.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	TraceID    string
}

// OK reports whether the status is 2xx.
func (r *RawResponse) OK() bool {
	return isSuccess(r.StatusCode)
}

// Text returns the body as a string.
func (r *RawResponse) Text() string {
	return string(r.Body)
}

// DecodeJSON unmarshals the body into v.
func (r *RawResponse) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("unmarshaling response body: %w", err)
	}

	return nil
}

// UnexpectedStatusError is returned by typed operations when the service
// does not respond with a 2xx status.
type UnexpectedStatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	TraceID    string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status code: expected 2xx, got %d, body: %s (trace ID: %s)", e.StatusCode, e.Body, e.TraceID)
}

func isSuccess(statusCode int) bool {
	return statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices
}
