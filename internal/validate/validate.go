// SPDX-License-Identifier: MIT

// Package validate collects configuration problems so they can be reported
// together instead of one per run.
package validate

import (
	"fmt"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Error is one rejected configuration value.
type Error struct {
	Field   string
	Value   any
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError is returned by Validator.Err and lists every rejected field.
type ValidationError struct {
	errs []Error
}

// Errors returns the rejected fields in the order they were checked.
func (e ValidationError) Errors() []Error {
	return e.errs
}

func (e ValidationError) Error() string {
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validator accumulates errors. The zero value is ready to use.
type Validator struct {
	errs []Error
}

// New returns an empty validator.
func New() *Validator {
	return &Validator{}
}

func (v *Validator) fail(field string, value any, format string, args ...any) {
	v.errs = append(v.errs, Error{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Err returns nil when every check passed, a ValidationError otherwise.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return ValidationError{errs: slices.Clone(v.errs)}
}

// LogLevels are the accepted log level names.
var LogLevels = []string{"trace", "debug", "info", "warn", "error"}

// LogLevel checks value against LogLevels, ignoring case.
func (v *Validator) LogLevel(field, value string) {
	if !slices.Contains(LogLevels, strings.ToLower(strings.TrimSpace(value))) {
		v.fail(field, value, "unknown log level %q (want one of %s)", value, strings.Join(LogLevels, ", "))
	}
}

// NotEmpty rejects blank strings.
func (v *Validator) NotEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.fail(field, value, "must not be empty")
	}
}

// IntRange checks lo <= value <= hi.
func (v *Validator) IntRange(field string, value, lo, hi int) {
	if value < lo || value > hi {
		v.fail(field, value, "must be within [%d, %d], got %d", lo, hi, value)
	}
}

// DurationRange checks lo <= value <= hi.
func (v *Validator) DurationRange(field string, value, lo, hi time.Duration) {
	if value < lo || value > hi {
		v.fail(field, value, "must be within [%s, %s], got %s", lo, hi, value)
	}
}

// Fraction checks 0 <= value <= 1.
func (v *Validator) Fraction(field string, value float64) {
	if value < 0 || value > 1 {
		v.fail(field, value, "must be within [0, 1], got %g", value)
	}
}

// OneOf checks that value is one of allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) {
	if !slices.Contains(allowed, value) {
		v.fail(field, value, "must be one of %s, got %q", strings.Join(allowed, ", "), value)
	}
}

// ListenAddr checks a host:port address with a numeric port in 1-65535.
// The host may be empty.
func (v *Validator) ListenAddr(field, addr string) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		v.fail(field, addr, "invalid listen address: %v", err)
		return
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		v.fail(field, addr, "port must be a number in [1, 65535], got %q", portStr)
	}
}

// File checks that path names an existing regular file.
func (v *Validator) File(field, path string) {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		v.fail(field, path, "file does not exist")
	case err != nil:
		v.fail(field, path, "cannot access file: %v", err)
	case info.IsDir():
		v.fail(field, path, "is a directory")
	}
}
