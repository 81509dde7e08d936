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
	"fmt"
)

// Credentials identify the account the suite logs in with.
type Credentials struct {
	Username string
	Password string
}

// String hides the password so credentials are safe to log.
func (c Credentials) String() string {
	return fmt.Sprintf("{Username:%s Password:[REDACTED]}", c.Username)
}

// GoString hides the password from %#v as well.
func (c Credentials) GoString() string {
	return c.String()
}

// Session is the identity and token every authenticated call is made with.
// The token is only ever set by a successful login, and a later login
// replaces it.
type Session struct {
	credentials Credentials
	token       string
}

// NewSession returns a session that has not logged in yet.
func NewSession(credentials Credentials) *Session {
	return &Session{
		credentials: credentials,
	}
}

// NewSessionFromConfig returns a session for the configured account.
func NewSessionFromConfig(config *TestConfig) *Session {
	return NewSession(Credentials{
		Username: config.Username,
		Password: config.Password,
	})
}

// Username returns the identity the session logs in as.
func (s *Session) Username() string {
	return s.credentials.Username
}

// Token returns the token from the last successful login, if any.
func (s *Session) Token() string {
	return s.token
}

// LoggedIn reports whether a login has succeeded.
func (s *Session) LoggedIn() bool {
	return s.token != ""
}

// AuthHeader returns the identity and token pair sent on authenticated calls.
func (s *Session) AuthHeader() *AuthHeader {
	return &AuthHeader{
		Username: s.credentials.Username,
		Token:    s.token,
	}
}

// InvalidAuthHeader returns an identity and token pair the service has never
// issued.
func InvalidAuthHeader() *AuthHeader {
	return &AuthHeader{
		Username: "invalidUser",
		Token:    "invalidToken123456",
	}
}

func (s *Session) String() string {
	return fmt.Sprintf("{Username:%s LoggedIn:%t}", s.credentials.Username, s.LoggedIn())
}
