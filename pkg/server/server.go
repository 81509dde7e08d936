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

// Package server provides a self-contained implementation of the client
// service API so the suites can run without a deployed service.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/spf13/pflag"

	"github.com/testhotel/client-api-tests/pkg/server/handler"
	"github.com/testhotel/client-api-tests/pkg/server/store"
)

type Options struct {
	ListenAddress     string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	Handler           handler.Options
}

func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.ListenAddress, "listen-address", ":3000", "API listener address.")
	f.DurationVar(&o.ReadHeaderTimeout, "read-header-timeout", time.Second, "How long to wait for request headers.")
	f.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", 5*time.Second, "How long to wait for in-flight requests on shutdown.")

	o.Handler.AddFlags(f)
}

// Seed returns the records every fresh service starts with.
func Seed() []store.Client {
	return []store.Client{
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
}

// NewHandler returns the fully routed service backed by a freshly seeded store.
func NewHandler(options *Options, logger logr.Logger) (http.Handler, error) {
	s, err := store.New(Seed())
	if err != nil {
		return nil, err
	}

	h, err := handler.New(s, &options.Handler, logger.WithName("handler"))
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(logger.WithName("http")))
	router.NotFound(http.NotFound)

	h.Routes(router)

	return router, nil
}

func requestLogger(logger logr.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.V(1).Info("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start), "traceparent", r.Header.Get("Traceparent"))
		})
	}
}

// Run serves the API until the context is cancelled.
func Run(ctx context.Context, options *Options, logger logr.Logger) error {
	h, err := NewHandler(options, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              options.ListenAddress,
		ReadHeaderTimeout: options.ReadHeaderTimeout,
		Handler:           h,
	}

	errs := make(chan error, 1)

	go func() {
		logger.Info("listening", "address", options.ListenAddress)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}

		close(errs)
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("serving API: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), options.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}
