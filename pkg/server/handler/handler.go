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

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-logr/logr"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/testhotel/client-api-tests/pkg/constants"
	"github.com/testhotel/client-api-tests/pkg/server/store"

	"golang.org/x/crypto/bcrypt"
)

var (
	errUnauthorized = errors.New(constants.UnauthorizedMessage)
	errBadRequest   = errors.New("Bad Request") //nolint:stylecheck
)

// Options define the account the service accepts.
type Options struct {
	Username string
	Password string
}

func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.Username, "username", constants.DefaultUsername, "Username accepted by the login endpoint")
	f.StringVar(&o.Password, "password", constants.DefaultPassword, "Password accepted by the login endpoint")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type authHeader struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type clientWrite struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Telephone string `json:"telephone" validate:"required"`
}

type deleteResponse struct {
	OK bool `json:"ok"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	// store holds clients and sessions.
	store *store.Store

	// username is the only account allowed to log in.
	username string

	// passwordHash is the bcrypt hash of the account password.
	passwordHash []byte

	validate *validator.Validate

	logger logr.Logger
}

func New(s *store.Store, options *Options, logger logr.Logger) (*Handler, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(options.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	h := &Handler{
		store:        s,
		username:     options.Username,
		passwordHash: hash,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       logger,
	}

	return h, nil
}

// Routes mounts the client service API on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/login", h.PostLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Get("/api/clients", h.GetClients)
		r.Post("/api/client/new", h.PostClientNew)
		r.Get("/api/client/{id}", h.GetClient)
		r.Put("/api/client/{id}", h.PutClient)
		r.Delete("/api/client/{id}", h.DeleteClient)
	})
}

type usernameKey struct{}

func usernameFromContext(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey{}).(string)

	return username
}

// authenticate checks the x-user-auth header names a user with a live session
// holding the same token.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(constants.AuthHeader)
		if raw == "" {
			h.handleError(w, r, errUnauthorized)
			return
		}

		var auth authHeader

		if err := json.Unmarshal([]byte(raw), &auth); err != nil {
			h.handleError(w, r, errUnauthorized)
			return
		}

		if err := h.store.ValidateSession(auth.Username, auth.Token); err != nil {
			h.logger.V(1).Info("rejected request", "path", r.URL.Path, "username", auth.Username)
			h.handleError(w, r, errUnauthorized)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), usernameKey{}, auth.Username)))
	})
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := http.StatusText(status)

	switch {
	case errors.Is(err, errUnauthorized):
		status = http.StatusUnauthorized
		message = constants.UnauthorizedMessage
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
		message = http.StatusText(status)
	default:
		h.logger.Error(err, "request failed", "method", r.Method, "path", r.URL.Path)
	}

	writeJSONResponse(w, status, &errorResponse{Error: message})
}

func writeJSONResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Add("Cache-Control", "no-cache")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func readJSONBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %w", errBadRequest, err)
	}

	return nil
}

func clientID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid client id", errBadRequest)
	}

	return id, nil
}

func (h *Handler) readClient(r *http.Request) (*store.Client, error) {
	request := &clientWrite{}

	if err := readJSONBody(r, request); err != nil {
		return nil, err
	}

	if err := h.validate.Struct(request); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}

	return &store.Client{
		Name:      request.Name,
		Email:     request.Email,
		Telephone: request.Telephone,
	}, nil
}

func (h *Handler) PostLogin(w http.ResponseWriter, r *http.Request) {
	request := &loginRequest{}

	if err := readJSONBody(r, request); err != nil {
		h.handleError(w, r, err)
		return
	}

	if request.Username != h.username || bcrypt.CompareHashAndPassword(h.passwordHash, []byte(request.Password)) != nil {
		h.logger.Info("login failed", "username", request.Username)
		h.handleError(w, r, errUnauthorized)

		return
	}

	token := uuid.NewString()

	if err := h.store.PutSession(request.Username, token); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.Info("login succeeded", "username", request.Username)

	writeJSONResponse(w, http.StatusOK, &loginResponse{Username: request.Username, Token: token})
}

func (h *Handler) GetClients(w http.ResponseWriter, r *http.Request) {
	result, err := h.store.List()
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if result == nil {
		result = []store.Client{}
	}

	writeJSONResponse(w, http.StatusOK, result)
}

func (h *Handler) PostClientNew(w http.ResponseWriter, r *http.Request) {
	request, err := h.readClient(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	result, err := h.store.Create(*request)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.Info("client created", "id", result.ID, "username", usernameFromContext(r.Context()))

	writeJSONResponse(w, http.StatusOK, result)
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := clientID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	result, err := h.store.Get(id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, result)
}

func (h *Handler) PutClient(w http.ResponseWriter, r *http.Request) {
	id, err := clientID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	request, err := h.readClient(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	result, err := h.store.Update(id, *request)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.Info("client updated", "id", id, "username", usernameFromContext(r.Context()))

	writeJSONResponse(w, http.StatusOK, result)
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := clientID(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.logger.Info("client deleted", "id", id, "username", usernameFromContext(r.Context()))

	writeJSONResponse(w, http.StatusOK, &deleteResponse{OK: true})
}
