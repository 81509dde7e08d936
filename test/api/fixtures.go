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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fixtureClients are the records the service is seeded with.
//
//nolint:gochecknoglobals
var fixtureClients = []ClientRecord{
	{
		ID:        1,
		Created:   "2020-01-05T12:00:00.000Z",
		Name:      "Jonas Hellman",
		Email:     "jonas.hellman@example.com",
		Telephone: "070 000 0001",
	},
	{
		ID:        2,
		Created:   "2020-01-06T12:00:00.000Z",
		Name:      "Mikael Eriksson",
		Email:     "mikael.eriksson@example.com",
		Telephone: "070 000 0002",
	},
}

// FixtureClients returns the seeded records in ID order.
func FixtureClients() []ClientRecord {
	result := make([]ClientRecord, len(fixtureClients))
	copy(result, fixtureClients)

	return result
}

// FixtureClient returns the seeded record with the given ID.
func FixtureClient(clientID int) (ClientRecord, bool) {
	for _, client := range fixtureClients {
		if client.ID == clientID {
			return client, true
		}
	}

	return ClientRecord{}, false
}

// LoginWithSession logs the session in and asserts the response has the
// expected shape.
func LoginWithSession(client *APIClient, ctx context.Context, session *Session) *LoginResponse {
	resp, err := client.Login(ctx, session)
	Expect(err).NotTo(HaveOccurred())

	return VerifyLoginResponse(resp, session.Username())
}

// VerifyLoginResponse checks a login succeeded for the username and
// returned a token.
func VerifyLoginResponse(resp *RawResponse, username string) *LoginResponse {
	Expect(resp.OK()).To(BeTrue(), "login failed with status %d (trace ID: %s)", resp.StatusCode, resp.TraceID)

	var body map[string]interface{}
	Expect(resp.DecodeJSON(&body)).To(Succeed())
	Expect(body).To(HaveKeyWithValue("username", username))
	Expect(body).To(HaveKeyWithValue("token", BeAssignableToTypeOf("")))

	var login LoginResponse
	Expect(resp.DecodeJSON(&login)).To(Succeed())
	Expect(login.Token).NotTo(BeEmpty())

	return &login
}

// CreateClientWithCleanup creates a client and schedules its deletion.
func CreateClientWithCleanup(client *APIClient, ctx context.Context, session *Session, payload *ClientPayload) *ClientRecord {
	record, err := client.CreateClient(ctx, session, payload)
	Expect(err).NotTo(HaveOccurred())

	GinkgoWriter.Printf("Created client with ID: %d\n", record.ID)

	// Schedule cleanup - this runs whether the test passes or fails so we don't need to clean up manually
	DeferCleanup(func() {
		resp, deleteErr := client.DeleteClient(ctx, session, record.ID)

		switch {
		case deleteErr != nil:
			GinkgoWriter.Printf("Warning: Failed to delete client %d: %v\n", record.ID, deleteErr)
		case resp.StatusCode == http.StatusNotFound:
			GinkgoWriter.Printf("Client %d already deleted\n", record.ID)
		case !resp.OK():
			GinkgoWriter.Printf("Warning: Failed to delete client %d: status %d body %s\n", record.ID, resp.StatusCode, resp.Text())
		default:
			GinkgoWriter.Printf("Successfully deleted client: %d\n", record.ID)
		}
	})

	return record
}

// pollInterval is how often the wait helpers re-read the service.
const pollInterval = time.Second

// WaitForClientListed waits up to the configured test timeout for the
// client to appear in the listing.
func WaitForClientListed(client *APIClient, ctx context.Context, config *TestConfig, session *Session, clientID int) {
	Eventually(func() ([]int, error) {
		clients, err := client.ListClients(ctx, session)
		if err != nil {
			return nil, err
		}

		return extractClientIDs(clients), nil
	}).WithTimeout(config.TestTimeout).WithPolling(pollInterval).Should(ContainElement(clientID))
}

// WaitForClientDeleted waits up to the configured test timeout for the
// client to be reported as not found.
func WaitForClientDeleted(client *APIClient, ctx context.Context, config *TestConfig, session *Session, clientID int) {
	Eventually(func() error {
		_, err := client.GetClient(ctx, session, clientID)
		return err
	}).WithTimeout(config.TestTimeout).WithPolling(pollInterval).Should(MatchError(ContainSubstring("404")))
}

// VerifyClientRecord checks every field of a record is populated and the
// creation time is a valid timestamp.
func VerifyClientRecord(record *ClientRecord) {
	Expect(record.ID).To(BeNumerically(">", 0))
	Expect(record.Name).NotTo(BeEmpty())
	Expect(record.Email).NotTo(BeEmpty())
	Expect(record.Telephone).NotTo(BeEmpty())

	_, err := record.CreatedTime()
	Expect(err).NotTo(HaveOccurred())
}

// VerifyClientListShape checks a raw list response is a JSON array of at
// least minClients objects, each carrying every client field.
func VerifyClientListShape(resp *RawResponse, minClients int) {
	Expect(resp.OK()).To(BeTrue(), "listing failed with status %d", resp.StatusCode)

	var clients []map[string]interface{}
	Expect(resp.DecodeJSON(&clients)).To(Succeed())
	Expect(len(clients)).To(BeNumerically(">=", minClients))

	for _, client := range clients {
		Expect(client).To(HaveKey("id"))
		Expect(client).To(HaveKey("created"))
		Expect(client).To(HaveKey("name"))
		Expect(client).To(HaveKey("email"))
		Expect(client).To(HaveKey("telephone"))
	}
}

// VerifyClientMatchesPayload checks the service echoed the submitted fields.
func VerifyClientMatchesPayload(record *ClientRecord, payload *ClientPayload) {
	Expect(record.Name).To(Equal(payload.Name))
	Expect(record.Email).To(Equal(payload.Email))
	Expect(record.Telephone).To(Equal(payload.Telephone))
}

// VerifyClientPresence checks the client IDs appear in the list.
func VerifyClientPresence(clients []ClientRecord, expectedClientIDs ...int) {
	clientIDs := extractClientIDs(clients)
	for _, expectedID := range expectedClientIDs {
		Expect(clientIDs).To(ContainElement(expectedID), "Expected client ID %d to be present in the list", expectedID)
	}
}

// VerifyClientAbsence checks the client IDs do not appear in the list.
func VerifyClientAbsence(clients []ClientRecord, clientIDs ...int) {
	present := extractClientIDs(clients)
	for _, clientID := range clientIDs {
		Expect(present).NotTo(ContainElement(clientID), "Expected client ID %d to be absent from the list", clientID)
	}
}

func extractClientIDs(clients []ClientRecord) []int {
	clientIDs := make([]int, len(clients))

	for i, client := range clients {
		clientIDs[i] = client.ID
	}

	return clientIDs
}

// VerifyDeleted checks a delete response reports success.
func VerifyDeleted(resp *RawResponse) {
	Expect(resp.OK()).To(BeTrue(), "delete failed with status %d body %s", resp.StatusCode, resp.Text())

	var result DeleteResult
	Expect(resp.DecodeJSON(&result)).To(Succeed())
	Expect(result.OK).To(BeTrue())
}

// VerifyUnauthorized checks the service rejected the call.
func VerifyUnauthorized(resp *RawResponse) {
	Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
	Expect(resp.Text()).To(ContainSubstring("Unauthorized"))
}
