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

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Authentication endpoints.
func (e *Endpoints) Login() string {
	return "/api/login"
}

// Client management endpoints.
func (e *Endpoints) ListClients() string {
	return "/api/clients"
}

func (e *Endpoints) CreateClient() string {
	return "/api/client/new"
}

func (e *Endpoints) GetClient(clientID int) string {
	return e.client(clientID)
}

func (e *Endpoints) UpdateClient(clientID int) string {
	return e.client(clientID)
}

func (e *Endpoints) DeleteClient(clientID int) string {
	return e.client(clientID)
}

func (e *Endpoints) client(clientID int) string {
	return fmt.Sprintf("/api/client/%d", clientID)
}
