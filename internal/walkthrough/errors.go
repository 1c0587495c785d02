package walkthrough

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
)

// ErrorKind tags a step failure so a step can declare which failures it
// tolerates.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindConnection covers dial, reset and closed-client failures.
	KindConnection
	// KindNotFound means the target resource is absent: a nil reply, an
	// unknown search index, a missing key.
	KindNotFound
	// KindAlreadyExists covers BUSYGROUP and duplicate index creation.
	KindAlreadyExists
	// KindCanceled means the operator interrupted the run.
	KindCanceled
)

var kindNames = map[ErrorKind]string{
	KindUnknown:       "unknown",
	KindConnection:    "connection",
	KindNotFound:      "not_found",
	KindAlreadyExists: "already_exists",
	KindCanceled:      "canceled",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// kindError carries an explicit kind attached by Tag
type kindError struct {
	kind ErrorKind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

// Tag attaches an explicit kind to err. Classify reports the tag in
// preference to anything it would infer.
func Tag(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// Error messages the store uses for absent and duplicate resources
var (
	notFoundMessages = []string{
		"unknown index name",
		"no such index",
		"no such key",
	}
	alreadyExistsMessages = []string{
		"index already exists",
		"busygroup",
	}
)

// Classify maps an error returned by a step action to its kind
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var tagged *kindError
	if errors.As(err, &tagged) {
		return tagged.kind
	}

	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, redis.Nil) {
		return KindNotFound
	}
	if redis.HasErrorPrefix(err, "BUSYGROUP") {
		return KindAlreadyExists
	}

	var redisErr redis.Error
	if errors.As(err, &redisErr) {
		msg := strings.ToLower(redisErr.Error())
		if containsAny(msg, notFoundMessages) {
			return KindNotFound
		}
		if containsAny(msg, alreadyExistsMessages) {
			return KindAlreadyExists
		}
		return KindUnknown
	}

	if isConnectionError(err) {
		return KindConnection
	}
	return KindUnknown
}

func isConnectionError(err error) bool {
	if errors.Is(err, redis.ErrClosed) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var sysErr syscall.Errno
	if errors.As(err, &sysErr) {
		switch sysErr {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED, syscall.ETIMEDOUT:
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// StepError is returned by Runner.Run when a step fails with a kind the
// step does not tolerate.
type StepError struct {
	Step string
	Kind ErrorKind
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed (%s): %v", e.Step, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
