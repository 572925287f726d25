// Package credential resolves a login code to the admin or to one partner.
package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mfgledger/logger"
	"mfgledger/models"
	"mfgledger/utils"

	"github.com/sirupsen/logrus"
)

const (
	DefaultAdminPin = "123456"
	DefaultTimeout  = 5 * time.Second
)

type Kind string

const (
	EmptyInput         Kind = "empty_input"
	InvalidPin         Kind = "invalid_pin"
	CredentialNotFound Kind = "credential_not_found"
)

// Error is a failed login. Users only ever see "login failed"; Kind is for logs and
// tests.
type Error struct {
	Kind Kind
}

func (e *Error) Error() string {
	return fmt.Sprintf("login failed: %s", e.Kind)
}

// IsKind reports whether err is a login failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

// ErrRemoteTimeout is returned by FirstOf when the deadline wins. Resolve folds it
// into CredentialNotFound.
var ErrRemoteTimeout = errors.New("remote directory fetch timed out")

// Directory is the remote partner list consulted on a cache miss.
type Directory interface {
	FetchAgents(ctx context.Context) ([]models.Agent, error)
}

type Resolver struct {
	Directory  Directory
	Timeout    time.Duration
	DefaultPin string
}

func NewResolver(dir Directory, timeout time.Duration, defaultPin string) *Resolver {
	return &Resolver{Directory: dir, Timeout: timeout, DefaultPin: defaultPin}
}

// Resolve checks a login code. Admin codes are compared with adminPin, falling back
// to the configured pin and then to DefaultAdminPin. Partner codes are matched
// against cached first and against a remote fetch on a miss.
func (r *Resolver) Resolve(ctx context.Context, code, role string, cached []models.Agent, adminPin string) (models.Identity, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Identity{}, &Error{Kind: EmptyInput}
	}

	if role == models.RoleAdmin {
		if !r.pinMatches(code, adminPin) {
			return models.Identity{}, &Error{Kind: InvalidPin}
		}
		return models.AdminIdentity(), nil
	}

	if a, ok := matchCode(cached, code); ok {
		return models.AgentIdentity(a), nil
	}

	fetched, err := r.fetch(ctx)
	if err != nil {
		logger.Log().WithFields(logrus.Fields{"role": role}).WithError(err).Warn("remote partner lookup failed")
		return models.Identity{}, &Error{Kind: CredentialNotFound}
	}
	if a, ok := matchCode(fetched, code); ok {
		return models.AgentIdentity(a), nil
	}
	return models.Identity{}, &Error{Kind: CredentialNotFound}
}

func (r *Resolver) fetch(ctx context.Context) ([]models.Agent, error) {
	if r.Directory == nil {
		return nil, errors.New("no partner directory configured")
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return FirstOf(ctx, timeout, r.Directory.FetchAgents)
}

func (r *Resolver) pinMatches(code, adminPin string) bool {
	pin := adminPin
	if pin == "" {
		pin = r.DefaultPin
	}
	if pin == "" {
		pin = DefaultAdminPin
	}
	if strings.HasPrefix(pin, "$2") {
		return utils.VerifyPassword(pin, code) == nil
	}
	return code == pin
}

type outcome[T any] struct {
	v   T
	err error
}

// FirstOf runs op against a deadline and returns whichever settles first. op gets a
// context that is cancelled once FirstOf returns, and a result delivered after that
// is discarded.
func FirstOf[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome[T], 1)
	go func() {
		v, err := op(ctx)
		done <- outcome[T]{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrRemoteTimeout
		}
		return zero, ctx.Err()
	}
}
