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

package constants

import (
	"os"
	"path"
)

var (
	// Application is the application name.
	//nolint:gochecknoglobals
	Application = path.Base(os.Args[0])

	// Version is the application version set via the Makefile.
	//nolint:gochecknoglobals
	Version string

	// Revision is the git revision set via the Makefile.
	//nolint:gochecknoglobals
	Revision string
)

const (
	// AuthHeader carries the JSON encoded username and token pair
	// on every authenticated request.
	AuthHeader = "x-user-auth"

	// UnauthorizedMessage is returned in the body of every rejected request.
	UnauthorizedMessage = "Unauthorized"

	// DefaultUsername is the account the stub service seeds on startup.
	DefaultUsername = "tester01"

	// DefaultPassword is the password for DefaultUsername.
	DefaultPassword = "GteteqbQQgSr88SwNExUQv2ydb7xuf8c" //nolint:gosec
)
