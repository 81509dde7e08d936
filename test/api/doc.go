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

// Package api provides integration test utilities for the client service API.
//
// # Separate Client Implementation
//
// APIClient is written by hand against the documented HTTP surface rather
// than generated from it:
//
// 1. **API Contract Validation**: any change to the service's routes, the
// x-user-auth header or the record shape needs a matching change here, which
// makes API evolution explicit and reviewable.
//
// 2. **Test-Specific Features**: The client includes features tailored
// for integration testing:
//   - W3C trace context propagation for request correlation
//   - Detailed error logging with trace IDs for debugging
//   - An explicit Session per identity instead of a shared token
//   - Direct access to HTTP status codes and response bodies
//
// # Stub Service
//
// When BASE_URL is not set the suites start the in-process service from
// pkg/server, seeded with the same fixtures this package expects, so the
// whole suite can run on a laptop or in CI without a deployment.
package api
