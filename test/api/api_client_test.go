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

//nolint:revive // dot imports standard for Ginkgo
package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/testhotel/client-api-tests/test/api"
	"github.com/testhotel/client-api-tests/test/api/mock"
)

var _ = Describe("API client against the stub service", func() {
	var (
		ctx     context.Context
		config  *api.TestConfig
		client  *api.APIClient
		session *api.Session
	)

	BeforeEach(func() {
		ctx = context.Background()
		config = &api.TestConfig{
			RequestTimeout: 5 * time.Second,
			TestTimeout:    5 * time.Second,
		}

		stop, err := api.StartStubService(config)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(stop)

		client = api.NewAPIClient(config)
		session = api.NewSessionFromConfig(config)
	})

	It("should record that the stub service is in use", func() {
		Expect(config.BaseURL).NotTo(BeEmpty())
		Expect(config.UseStubService()).To(BeFalse())
		Expect(config.StubService).To(BeTrue())
		Expect(config.CheckFixtures()).To(BeTrue())
	})

	Context("When logging in", func() {
		It("should store the token in the session", func() {
			Expect(session.LoggedIn()).To(BeFalse())

			login := api.LoginWithSession(client, ctx, session)
			Expect(session.LoggedIn()).To(BeTrue())
			Expect(session.Token()).To(Equal(login.Token))
		})

		It("should surface a rejected login without an error", func() {
			bad := api.NewSession(api.Credentials{Username: config.Username, Password: "wrong"})

			resp, err := client.Login(ctx, bad)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.OK()).To(BeFalse())
			api.VerifyUnauthorized(resp)
			Expect(bad.LoggedIn()).To(BeFalse())
		})

		It("should replace the token on a new login", func() {
			other := api.NewSessionFromConfig(config)

			api.LoginWithSession(client, ctx, session)
			api.LoginWithSession(client, ctx, other)
			Expect(other.Token()).NotTo(Equal(session.Token()))

			_, err := client.ListClients(ctx, session)
			Expect(err).To(HaveOccurred())

			clients, err := client.ListClients(ctx, other)
			Expect(err).NotTo(HaveOccurred())
			Expect(clients).NotTo(BeEmpty())
		})
	})

	Context("When authenticated", func() {
		BeforeEach(func() {
			api.LoginWithSession(client, ctx, session)
		})

		It("should list the seeded clients", func() {
			clients, err := client.ListClients(ctx, session)
			Expect(err).NotTo(HaveOccurred())
			Expect(clients).To(HaveLen(2))
			Expect(clients[0]).To(Equal(api.FixtureClients()[0]))
			Expect(clients[1]).To(Equal(api.FixtureClients()[1]))
		})

		It("should create, update, fetch and delete a client", func() {
			payload := api.NewClientPayload().Build()

			created, err := client.CreateClient(ctx, session, payload)
			Expect(err).NotTo(HaveOccurred())
			api.VerifyClientRecord(created)
			api.VerifyClientMatchesPayload(created, payload)

			update := api.NewClientPayload().WithName("Updated Name").Build()

			updated, err := client.UpdateClient(ctx, session, created.ID, update)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ID).To(Equal(created.ID))
			Expect(updated.Created).To(Equal(created.Created))
			api.VerifyClientMatchesPayload(updated, update)

			fetched, err := client.GetClient(ctx, session, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(fetched).To(Equal(updated))

			resp, err := client.DeleteClient(ctx, session, created.ID)
			Expect(err).NotTo(HaveOccurred())
			api.VerifyDeleted(resp)

			resp, err = client.DeleteClient(ctx, session, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("should wait for clients to be listed and then deleted", func() {
			record, err := client.CreateClient(ctx, session, api.NewClientPayload().Build())
			Expect(err).NotTo(HaveOccurred())

			api.WaitForClientListed(client, ctx, config, session, record.ID)

			clients, err := client.ListClients(ctx, session)
			Expect(err).NotTo(HaveOccurred())
			api.VerifyClientPresence(clients, record.ID)

			resp, err := client.DeleteClient(ctx, session, record.ID)
			Expect(err).NotTo(HaveOccurred())
			api.VerifyDeleted(resp)

			api.WaitForClientDeleted(client, ctx, config, session, record.ID)
		})

		It("should return a typed error for non-2xx responses", func() {
			_, err := client.GetClient(ctx, session, 9999)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("404"))

			var statusErr *api.UnexpectedStatusError
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.StatusCode).To(Equal(http.StatusNotFound))
			Expect(statusErr.Path).To(Equal("/api/client/9999"))
			Expect(statusErr.TraceID).To(HaveLen(32))
		})

		It("should reject invalid payloads", func() {
			_, err := client.CreateClient(ctx, session, api.NewClientPayload().WithEmail("").Build())
			Expect(err).To(MatchError(ContainSubstring("400")))
		})
	})

	Context("When not authenticated", func() {
		It("should reject a delete with an invalid identity", func() {
			resp, err := client.DeleteClientWithoutAuth(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			api.VerifyUnauthorized(resp)
		})

		It("should reject listing before login", func() {
			_, err := client.ListClients(ctx, session)
			Expect(err).To(MatchError(ContainSubstring("401")))
		})
	})
})

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

var _ = Describe("API client request construction", func() {
	var (
		ctx    context.Context
		doer   *mock.MockHTTPDoer
		client *api.APIClient
	)

	BeforeEach(func() {
		ctx = context.Background()
		doer = mock.NewMockHTTPDoer(gomock.NewController(GinkgoT()))
		client = api.NewAPIClientWithDoer(&api.TestConfig{BaseURL: "https://clients.example.com/"}, doer)
	})

	It("should send the login body and keep the returned token", func() {
		session := api.NewSession(api.Credentials{Username: "tester01", Password: "hunter2"})

		doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
			Expect(req.Method).To(Equal(http.MethodPost))
			Expect(req.URL.String()).To(Equal("https://clients.example.com/api/login"))
			Expect(req.Header.Get("Content-Type")).To(Equal("application/json"))
			Expect(req.Header.Get("x-user-auth")).To(BeEmpty())

			body, err := io.ReadAll(req.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(MatchJSON(`{"username":"tester01","password":"hunter2"}`))

			return jsonResponse(http.StatusOK, `{"username":"tester01","token":"abc123"}`), nil
		})

		resp, err := client.Login(ctx, session)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.OK()).To(BeTrue())
		Expect(session.Token()).To(Equal("abc123"))
	})

	It("should attach the session as a JSON auth header", func() {
		session := api.NewSession(api.Credentials{Username: "tester01", Password: "hunter2"})

		gomock.InOrder(
			doer.EXPECT().Do(gomock.Any()).Return(jsonResponse(http.StatusOK, `{"username":"tester01","token":"abc123"}`), nil),
			doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
				Expect(req.Method).To(Equal(http.MethodGet))
				Expect(req.URL.Path).To(Equal("/api/clients"))
				Expect(req.Header.Get("x-user-auth")).To(MatchJSON(`{"username":"tester01","token":"abc123"}`))
				Expect(req.Header.Get("Traceparent")).To(MatchRegexp(`^00-[0-9a-f]{32}-[0-9a-f]{16}-01$`))

				return jsonResponse(http.StatusOK, `[]`), nil
			}),
		)

		_, err := client.Login(ctx, session)
		Expect(err).NotTo(HaveOccurred())

		clients, err := client.ListClients(ctx, session)
		Expect(err).NotTo(HaveOccurred())
		Expect(clients).To(BeEmpty())
	})

	It("should send the known invalid identity when probing authorization", func() {
		doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
			Expect(req.Method).To(Equal(http.MethodDelete))
			Expect(req.URL.Path).To(Equal("/api/client/5"))

			var auth api.AuthHeader
			Expect(json.Unmarshal([]byte(req.Header.Get("x-user-auth")), &auth)).To(Succeed())
			Expect(auth).To(Equal(*api.InvalidAuthHeader()))

			return jsonResponse(http.StatusUnauthorized, `{"error":"Unauthorized"}`), nil
		})

		resp, err := client.DeleteClientWithoutAuth(ctx, 5)
		Expect(err).NotTo(HaveOccurred())
		api.VerifyUnauthorized(resp)
	})

	It("should wrap transport failures", func() {
		session := api.NewSession(api.Credentials{Username: "tester01"})

		doer.EXPECT().Do(gomock.Any()).Return(nil, fmt.Errorf("connection refused"))

		_, err := client.GetClient(ctx, session, 1)
		Expect(err).To(MatchError(ContainSubstring("http request failed")))
		Expect(err).To(MatchError(ContainSubstring("connection refused")))
	})

	It("should fail on a malformed success body", func() {
		session := api.NewSession(api.Credentials{Username: "tester01"})

		doer.EXPECT().Do(gomock.Any()).Return(jsonResponse(http.StatusOK, `not json`), nil)

		_, err := client.ListClients(ctx, session)
		Expect(err).To(MatchError(ContainSubstring("unmarshaling response body")))
	})
})

var _ = Describe("Sessions and payloads", func() {
	It("should keep the password out of formatted output", func() {
		credentials := api.Credentials{Username: "tester01", Password: "hunter2"}
		session := api.NewSession(credentials)

		for _, formatted := range []string{
			fmt.Sprintf("%v", credentials),
			fmt.Sprintf("%+v", credentials),
			fmt.Sprintf("%#v", credentials),
			fmt.Sprintf("%v", session),
			fmt.Sprintf("%+v", session),
		} {
			Expect(formatted).NotTo(ContainSubstring("hunter2"))
			Expect(formatted).To(ContainSubstring("tester01"))
		}
	})

	It("should generate unique payloads", func() {
		first := api.NewClientPayload().Build()
		second := api.NewClientPayload().Build()

		Expect(first.Name).NotTo(Equal(second.Name))
		Expect(first.Email).NotTo(Equal(second.Email))
		Expect(first.Email).To(HaveSuffix("@example.com"))
		Expect(first.Telephone).To(MatchRegexp(`^070 \d{3} \d{4}$`))
	})

	It("should parse creation timestamps", func() {
		fixture, ok := api.FixtureClient(1)
		Expect(ok).To(BeTrue())

		created, err := fixture.CreatedTime()
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeTemporally("==", time.Date(2020, 1, 5, 12, 0, 0, 0, time.UTC)))

		_, ok = api.FixtureClient(42)
		Expect(ok).To(BeFalse())
	})

	It("should reject timestamps without milliseconds", func() {
		record := api.ClientRecord{Created: time.Date(2026, 10, 19, 8, 30, 15, 123e6, time.UTC).Format(api.CreatedLayout)}
		Expect(record.Created).To(Equal("2026-10-19T08:30:15.123Z"))

		_, err := record.CreatedTime()
		Expect(err).NotTo(HaveOccurred())

		record.Created = "2026-10-19T08:30:15Z"
		_, err = record.CreatedTime()
		Expect(err).To(HaveOccurred())
	})
})
