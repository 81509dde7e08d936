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
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mathrand "math/rand/v2"
)

func generateRandomName(prefix string) string {
	bytes := make([]byte, 4) // 8 hex characters
	_, _ = rand.Read(bytes)

	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(bytes))
}

func GenerateTestID() string {
	return generateRandomName("test")
}

// generateTelephone returns a number in the same "070 000 0000" shape as
// the seeded records.
func generateTelephone() string {
	//nolint:gosec // not security sensitive
	return fmt.Sprintf("070 %03d %04d", mathrand.IntN(1000), mathrand.IntN(10000))
}

// ClientPayloadBuilder builds client payloads for testing.
type ClientPayloadBuilder struct {
	payload ClientPayload
}

// NewClientPayload creates a payload builder with unique random values.
func NewClientPayload() *ClientPayloadBuilder {
	id := GenerateTestID()

	return &ClientPayloadBuilder{
		payload: ClientPayload{
			Name:      fmt.Sprintf("Automation Client %s", id),
			Email:     fmt.Sprintf("%s@example.com", id),
			Telephone: generateTelephone(),
		},
	}
}

// WithName sets the client name.
func (b *ClientPayloadBuilder) WithName(name string) *ClientPayloadBuilder {
	b.payload.Name = name
	return b
}

// WithEmail sets the client email (pass empty string to omit).
func (b *ClientPayloadBuilder) WithEmail(email string) *ClientPayloadBuilder {
	b.payload.Email = email
	return b
}

// WithTelephone sets the client telephone number.
func (b *ClientPayloadBuilder) WithTelephone(telephone string) *ClientPayloadBuilder {
	b.payload.Telephone = telephone
	return b
}

// Build returns the completed client payload.
func (b *ClientPayloadBuilder) Build() *ClientPayload {
	payload := b.payload

	return &payload
}
