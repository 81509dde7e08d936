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

// Package store keeps client records and login sessions in memory
// for the stub client service.
package store

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/go-memdb"
)

const (
	clientsTable  = "clients"
	sessionsTable = "sessions"

	// CreatedLayout is the wire format of a record's creation time.
	CreatedLayout = "2006-01-02T15:04:05.000Z"
)

var (
	// ErrNotFound is returned when a record or session does not exist.
	ErrNotFound = errors.New("resource not found")
)

//nolint:gochecknoglobals
var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		clientsTable: {
			Name: clientsTable,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
			},
		},
		sessionsTable: {
			Name: sessionsTable,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Username"},
				},
				"token": {
					Name:    "token",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Token"},
				},
			},
		},
	},
}

// Client is a single client record.
type Client struct {
	ID        int    `json:"id"`
	Created   string `json:"created"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
}

// Session binds a token to the user that logged in with it.
type Session struct {
	Username string
	Token    string
}

// Store is an in-memory client and session database.
type Store struct {
	db *memdb.MemDB

	// nextID is only read and written while holding a write transaction.
	nextID int

	// now is overridden in tests.
	now func() time.Time
}

// New returns a store populated with the given seed records.  Seed records
// keep their IDs, new records are numbered after the highest seed ID.
func New(seed []Client) (*Store, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	s := &Store{
		db:     db,
		nextID: 1,
		now:    time.Now,
	}

	txn := db.Txn(true)
	defer txn.Abort()

	for i := range seed {
		record := seed[i]

		if err := txn.Insert(clientsTable, &record); err != nil {
			return nil, fmt.Errorf("seeding client %d: %w", record.ID, err)
		}

		if record.ID >= s.nextID {
			s.nextID = record.ID + 1
		}
	}

	txn.Commit()

	return s, nil
}

// List returns all clients ordered by ID.
func (s *Store) List() ([]Client, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(clientsTable, "id")
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	var result []Client

	for obj := it.Next(); obj != nil; obj = it.Next() {
		result = append(result, *obj.(*Client)) //nolint:forcetypeassert
	}

	slices.SortFunc(result, func(a, b Client) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return result, nil
}

// Get returns a single client.
func (s *Store) Get(id int) (*Client, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	return s.get(txn, id)
}

func (s *Store) get(txn *memdb.Txn, id int) (*Client, error) {
	obj, err := txn.First(clientsTable, "id", id)
	if err != nil {
		return nil, fmt.Errorf("reading client %d: %w", id, err)
	}

	if obj == nil {
		return nil, fmt.Errorf("%w: client %d", ErrNotFound, id)
	}

	record := *obj.(*Client) //nolint:forcetypeassert

	return &record, nil
}

// Create assigns an ID and creation time to the client and stores it.
func (s *Store) Create(in Client) (*Client, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	record := in
	record.ID = s.nextID
	record.Created = s.now().UTC().Format(CreatedLayout)

	if err := txn.Insert(clientsTable, &record); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	s.nextID++

	txn.Commit()

	result := record

	return &result, nil
}

// Update replaces the mutable fields of an existing client.
func (s *Store) Update(id int, in Client) (*Client, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	current, err := s.get(txn, id)
	if err != nil {
		return nil, err
	}

	record := &Client{
		ID:        current.ID,
		Created:   current.Created,
		Name:      in.Name,
		Email:     in.Email,
		Telephone: in.Telephone,
	}

	if err := txn.Insert(clientsTable, record); err != nil {
		return nil, fmt.Errorf("updating client %d: %w", id, err)
	}

	txn.Commit()

	result := *record

	return &result, nil
}

// Delete removes a client.
func (s *Store) Delete(id int) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(clientsTable, "id", id)
	if err != nil {
		return fmt.Errorf("reading client %d: %w", id, err)
	}

	if obj == nil {
		return fmt.Errorf("%w: client %d", ErrNotFound, id)
	}

	if err := txn.Delete(clientsTable, obj); err != nil {
		return fmt.Errorf("deleting client %d: %w", id, err)
	}

	txn.Commit()

	return nil
}

// PutSession records a login, replacing any previous token for the user.
func (s *Store) PutSession(username, token string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(sessionsTable, "id", username); err != nil {
		return fmt.Errorf("removing session for %s: %w", username, err)
	}

	if err := txn.Insert(sessionsTable, &Session{Username: username, Token: token}); err != nil {
		return fmt.Errorf("storing session for %s: %w", username, err)
	}

	txn.Commit()

	return nil
}

// ValidateSession checks the token is the live one for the user.
func (s *Store) ValidateSession(username, token string) error {
	if username == "" || token == "" {
		return fmt.Errorf("%w: empty identity", ErrNotFound)
	}

	txn := s.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(sessionsTable, "id", username)
	if err != nil {
		return fmt.Errorf("reading session for %s: %w", username, err)
	}

	if obj == nil {
		return fmt.Errorf("%w: session for %s", ErrNotFound, username)
	}

	//nolint:forcetypeassert
	if obj.(*Session).Token != token {
		return fmt.Errorf("%w: session for %s", ErrNotFound, username)
	}

	return nil
}
