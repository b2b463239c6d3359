// Package remote stores named gridpack server profiles for the CLI.
//
// A remote is a name pointing at a server URL, so push and pull can say
// "origin" instead of repeating the address. Profiles are stored as JSON
// files in a config directory, one file per remote.
//
// # Usage
//
// Create a store and save a remote:
//
//	store, err := remote.NewFileStore("") // uses ~/.config/gridpack/remotes/
//	if err != nil {
//	    return err
//	}
//	r, err := remote.New("origin", "http://localhost:8080")
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, r)
//
// Look one up later:
//
//	r, err := store.Get(ctx, "origin")
//	if err != nil {
//	    return err
//	}
//	if r == nil {
//	    // No such remote.
//	}
package remote

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultName is the remote used when a command does not name one.
const DefaultName = "origin"

// Remote is one saved server profile.
type Remote struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a remote profile after validating the URL. Trailing
// slashes are stripped so joined request paths stay clean.
func New(name, rawURL string) (*Remote, error) {
	if name == "" {
		return nil, fmt.Errorf("remote name cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid remote url %q: want http(s)://host[:port]", rawURL)
	}
	return &Remote{
		Name:      name,
		URL:       strings.TrimRight(rawURL, "/"),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Store is the interface for remote profile storage backends.
type Store interface {
	// Get retrieves a remote by name.
	// Returns nil, nil if the remote doesn't exist.
	Get(ctx context.Context, name string) (*Remote, error)

	// Set stores a remote, replacing any existing profile with the same
	// name.
	Set(ctx context.Context, r *Remote) error

	// Delete removes a remote.
	Delete(ctx context.Context, name string) error

	// List returns all stored remotes sorted by name.
	List(ctx context.Context) ([]*Remote, error)
}
