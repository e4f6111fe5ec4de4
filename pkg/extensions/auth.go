// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when authentication or authorization fails.
// Hosted implementations should wrap this error with additional context.
var ErrUnauthorized = errors.New("unauthorized")

// AuthInfo contains identity information returned after successful
// authentication. UserID is the only required field.
type AuthInfo struct {
	// UserID is the unique identifier for the authenticated user.
	UserID string

	// Email is the user's email address. May be empty.
	Email string

	// Roles contains role memberships for authorization decisions.
	// Common roles: "admin", "reviewer", "auditor".
	Roles []string

	// Metadata holds additional claims from the identity provider.
	Metadata map[string]any
}

// HasRole checks if the user has a specific role.
func (a *AuthInfo) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AuthProvider validates authentication tokens and returns user identity.
//
// The default NopAuthProvider always returns a valid "local-user" with admin
// privileges, so the local service and CLI function without any identity
// infrastructure. Hosted deployments validate tokens against their identity
// provider and return real identity information.
//
// Implementations must be safe for concurrent use.
type AuthProvider interface {
	// Validate checks if the token is valid and returns the user's identity.
	// Returns ErrUnauthorized (possibly wrapped) for an invalid token.
	Validate(ctx context.Context, token string) (*AuthInfo, error)
}

// AuthzRequest describes one authorization check: (subject, action, resource).
type AuthzRequest struct {
	// User is the authenticated user making the request.
	User *AuthInfo

	// Action is the operation being attempted: "create", "read", "execute".
	Action string

	// ResourceType is the category of resource: "plan", "concern", "registry".
	ResourceType string

	// ResourceID is the specific resource instance. Empty means the check is
	// for the resource type in general.
	ResourceID string
}

// AuthzProvider checks if a user is authorized to perform an action.
//
// Implementations must be safe for concurrent use.
type AuthzProvider interface {
	// Authorize returns nil when the action is permitted and ErrUnauthorized
	// (possibly wrapped) when denied.
	Authorize(ctx context.Context, req AuthzRequest) error
}

// NopAuthProvider always authenticates as a local admin user. This is the
// open source default for single-user deployments.
type NopAuthProvider struct{}

// Validate ignores the token and returns the local admin user.
func (p *NopAuthProvider) Validate(_ context.Context, _ string) (*AuthInfo, error) {
	return &AuthInfo{
		UserID: "local-user",
		Roles:  []string{"admin"},
	}, nil
}

// NopAuthzProvider allows every action. This is the open source default.
type NopAuthzProvider struct{}

// Authorize always returns nil.
func (p *NopAuthzProvider) Authorize(_ context.Context, _ AuthzRequest) error {
	return nil
}

var (
	_ AuthProvider  = (*NopAuthProvider)(nil)
	_ AuthzProvider = (*NopAuthzProvider)(nil)
)
