// Package errors defines the structured error used across ecehelper.
//
// An *Error records the operation that failed, a Kind the UI can switch on,
// and the underlying cause. Callers build them with E or one of the
// constructors below and test them with Is.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Op names the failing operation, e.g. "store.Save".
type Op string

// Kind classifies an error for callers that react differently per class.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindIO
	KindNetwork
	KindConfig
	KindBackend
	KindBusy
	KindTimeout
)

var kindNames = map[Kind]string{
	KindNotFound: "not found",
	KindInvalid:  "invalid",
	KindIO:       "I/O error",
	KindNetwork:  "network error",
	KindConfig:   "configuration error",
	KindBackend:  "backend error",
	KindBusy:     "busy",
	KindTimeout:  "timeout",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown error"
}

// Error is an error with an operation, kind and optional context line.
type Error struct {
	Op      Op
	Kind    Kind
	Err     error
	Context string
}

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, string(e.Op))
	}
	if e.Context != "" {
		parts = append(parts, e.Context)
	}
	parts = append(parts, e.Err.Error())
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error from any mix of Op, Kind, string (context) and error.
// With no error argument the context string becomes the cause.
func E(args ...any) error {
	e := &Error{}
	for _, arg := range args {
		switch v := arg.(type) {
		case Op:
			e.Op = v
		case Kind:
			e.Kind = v
		case string:
			e.Context = v
		case error:
			e.Err = v
		}
	}
	if e.Err == nil {
		e.Err, e.Context = errors.New(e.Context), ""
	}
	return e
}

// GetKind returns the Kind of the first *Error in err's chain.
func GetKind(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return KindUnknown
	}
	return e.Kind
}

// Is reports whether err's chain holds an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Session store

func StoreLoadFailed(location string, err error) error {
	return E(Op("store.Load"), KindIO, "failed to load sessions from "+location, err)
}

func StoreSaveFailed(location string, err error) error {
	return E(Op("store.Save"), KindIO, "failed to save sessions to "+location, err)
}

func SessionNotFound(id string) error {
	return E(Op("session.Get"), KindNotFound, "session "+id+" not found")
}

// Configuration

func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, "failed to load config from "+path, err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, "failed to save config to "+path, err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Tutor backend

func BackendRequestFailed(endpoint string, err error) error {
	return E(Op("backend.Do"), KindNetwork, "request to "+endpoint+" failed", err)
}

func BackendTimeout(endpoint string, err error) error {
	return E(Op("backend.Do"), KindTimeout, "request to "+endpoint+" timed out", err)
}

// BackendStatus reports a non-2xx reply. detail is the server's error text,
// if it sent one.
func BackendStatus(endpoint string, status int, detail string) error {
	msg := fmt.Sprintf("%s returned HTTP %d", endpoint, status)
	if detail != "" {
		msg += ": " + detail
	}
	return E(Op("backend.Do"), KindBackend, msg)
}

func BackendDecodeFailed(endpoint string, err error) error {
	return E(Op("backend.Decode"), KindBackend, "invalid response from "+endpoint, err)
}

// Message pipeline

func SubmissionBlank() error {
	return E(Op("pipeline.Submit"), KindInvalid, "message is empty")
}

func SubmissionBusy(sessionID string) error {
	return E(Op("pipeline.Submit"), KindBusy, "session "+sessionID+" already has a reply in progress")
}
