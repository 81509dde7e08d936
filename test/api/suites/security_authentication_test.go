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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/testhotel/client-api-tests/test/api"
)

var _ = Describe("Security and Authentication", func() {
	Context("When logging in", func() {
		Describe("Given invalid credentials", func() {
			It("should reject the login and issue no token", func() {
				bad := api.NewSession(api.Credentials{
					Username: config.Username,
					Password: api.GenerateTestID(),
				})

				resp, err := client.Login(ctx, bad)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyUnauthorized(resp)
				Expect(bad.LoggedIn()).To(BeFalse())
			})

			It("should reject an unknown user", func() {
				bad := api.NewSession(api.Credentials{
					Username: api.GenerateTestID(),
					Password: config.Password,
				})

				resp, err := client.Login(ctx, bad)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyUnauthorized(resp)
			})
		})
	})

	Context("When accessing API with different authentication states", func() {
		Describe("Given an invalid identity and token", func() {
			DescribeTable("should reject deletes regardless of the target",
				func(clientID int) {
					resp, err := client.DeleteClientWithoutAuth(ctx, clientID)
					Expect(err).NotTo(HaveOccurred())
					api.VerifyUnauthorized(resp)
				},
				Entry("for a seeded client", 1),
				Entry("for another seeded client", 2),
				Entry("for a client that does not exist", 5),
				Entry("for a negative id", -1),
			)

			It("should leave the target client untouched", func() {
				record := api.CreateClientWithCleanup(client, ctx, session, api.NewClientPayload().Build())

				resp, err := client.DeleteClientWithoutAuth(ctx, record.ID)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyUnauthorized(resp)

				retrieved, err := client.GetClient(ctx, session, record.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(retrieved).To(Equal(record))
			})
		})

		Describe("Given a valid identity with a forged token", func() {
			It("should reject the request", func() {
				forged := &api.AuthHeader{
					Username: session.Username(),
					Token:    api.GenerateTestID(),
				}

				resp, err := client.Do(ctx, http.MethodGet, client.Endpoints().ListClients(), forged, nil)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyUnauthorized(resp)
			})
		})

		Describe("Given a valid token presented for another identity", func() {
			It("should reject the request", func() {
				mismatched := &api.AuthHeader{
					Username: api.GenerateTestID(),
					Token:    session.Token(),
				}

				resp, err := client.Do(ctx, http.MethodGet, client.Endpoints().GetClient(config.FixtureClientID), mismatched, nil)
				Expect(err).NotTo(HaveOccurred())
				api.VerifyUnauthorized(resp)
			})
		})

		Describe("Given no authentication", func() {
			DescribeTable("should reject every client endpoint",
				func(method string, path func() string) {
					resp, err := client.Do(ctx, method, path(), nil, nil)
					Expect(err).NotTo(HaveOccurred())
					api.VerifyUnauthorized(resp)
				},
				Entry("listing", http.MethodGet, func() string { return client.Endpoints().ListClients() }),
				Entry("fetching", http.MethodGet, func() string { return client.Endpoints().GetClient(1) }),
				Entry("deleting", http.MethodDelete, func() string { return client.Endpoints().DeleteClient(1) }),
			)
		})
	})
})
