// Package service contains the business rules of the application.
//
// Each vertical gets one service struct, built once at startup with the store
// interface it needs and a logger:
//
//	Handler (HTTP)  → parses requests, writes responses
//	Service         → validates, checks ownership, orchestrates
//	Repository      → reads/writes records
//
// Services accept plain Go values and return model records or *apperror.AppError
// values. They know nothing about HTTP, so the same rules apply to any caller.
//
// Every mutation is a read-modify-write of one record with no version check.
// Two concurrent writers to the same record can lose an update; that is an
// accepted property of the system, not something this layer tries to detect.
package service

import (
	"strings"
	"time"

	"github.com/sakif/learnhub/internal/apperror"
)

// Clock returns the current time. Services default to time.Now; tests pin it.
type Clock func() time.Time

// required trims value and fails with a validation error naming field when
// nothing is left.
func required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperror.ValidationFailed(field, field+" is required")
	}
	return value, nil
}

// checkOwner fails with Forbidden when requesterID is not the record owner.
func checkOwner(what, ownerID, requesterID string) error {
	if ownerID != requesterID {
		return apperror.Forbidden("you are not authorized to modify this " + what)
	}
	return nil
}
