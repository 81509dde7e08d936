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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"

	"github.com/testhotel/client-api-tests/pkg/constants"
	"github.com/testhotel/client-api-tests/pkg/server"

	"go.uber.org/zap"
)

func main() {
	var options server.Options

	options.AddFlags(pflag.CommandLine)

	development := pflag.Bool("development", false, "Use human readable debug logging.")

	pflag.Parse()

	zl, err := zap.NewProduction()
	if *development {
		zl, err = zap.NewDevelopment()
	}

	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer func() {
		_ = zl.Sync()
	}()

	logger := zapr.NewLogger(zl)

	// Never log the password.
	logger.WithName("init").Info("service starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision, "username", options.Handler.Username)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, &options, logger); err != nil {
		logger.Error(err, "service failed")
		os.Exit(1) //nolint:gocritic
	}
}
