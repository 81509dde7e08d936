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
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"

	"github.com/testhotel/client-api-tests/pkg/constants"
	"github.com/testhotel/client-api-tests/pkg/server"
	"github.com/testhotel/client-api-tests/pkg/server/handler"
)

// StartStubService runs the in-process client service and points the
// configuration at it.  Configured credentials are honoured, otherwise the
// service defaults are used.  The returned function stops the service.
func StartStubService(config *TestConfig) (func(), error) {
	options := &server.Options{
		Handler: handler.Options{
			Username: constants.DefaultUsername,
			Password: constants.DefaultPassword,
		},
	}

	if config.Username != "" {
		options.Handler.Username = config.Username
	}

	if config.Password != "" {
		options.Handler.Password = config.Password
	}

	h, err := server.NewHandler(options, ginkgo.GinkgoLogr)
	if err != nil {
		return nil, fmt.Errorf("creating stub service: %w", err)
	}

	srv := httptest.NewServer(h)

	config.BaseURL = srv.URL
	config.Username = options.Handler.Username
	config.Password = options.Handler.Password
	config.StubService = true

	return srv.Close, nil
}
