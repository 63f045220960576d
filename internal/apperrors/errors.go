/**
 * @description
 * Error taxonomy for the orderbook indexer, mirroring the categories the
 * ingestion pipeline needs to distinguish when deciding whether to retry,
 * skip, or crash: upstream event-provider failures, database failures,
 * event decode failures, configuration failures, and unsupported chains.
 *
 * @dependencies
 * - github.com/jackc/pgconn: inspecting Postgres error codes for retry
 *   classification (deadlock / serialization failure)
 */

package apperrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
)

// Kind identifies a category of application error.
type Kind string

const (
	KindUpstream       Kind = "upstream"
	KindDatabase       Kind = "database"
	KindParse          Kind = "parse"
	KindConfig         Kind = "config"
	KindInvalidChainID Kind = "invalid_chain_id"
)

// Error wraps an underlying cause with a Kind so callers can branch on
// category without string-matching messages.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newErr(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Upstream wraps a failure talking to the Pangea event provider.
func Upstream(message string, cause error) *Error {
	return newErr(KindUpstream, message, cause)
}

// Database wraps a failure from the repository layer.
func Database(message string, cause error) *Error {
	return newErr(KindDatabase, message, cause)
}

// Parse wraps a failure decoding a raw event into a domain model.
func Parse(message string, cause error) *Error {
	return newErr(KindParse, message, cause)
}

// Config wraps a configuration loading/validation failure.
func Config(message string, cause error) *Error {
	return newErr(KindConfig, message, cause)
}

// InvalidChainID reports an unsupported or malformed chain identifier.
func InvalidChainID(raw string) *Error {
	return newErr(KindInvalidChainID, fmt.Sprintf("unsupported chain id %q", raw), nil)
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// postgres error codes per https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeDeadlockDetected       = "40P01"
	pgCodeSerializationFailure   = "40001"
	pgCodeUniqueViolation        = "23505"
	pgCodeForeignKeyViolation    = "23503"
)

// IsRetryableDBError reports whether err represents a transient database
// failure (deadlock or serialization conflict) that is safe to retry.
func IsRetryableDBError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCodeDeadlockDetected || pgErr.Code == pgCodeSerializationFailure
	}
	return false
}

// IsUniqueViolation reports whether err is a unique-constraint violation,
// which the repository layer treats as "already applied" for idempotent
// upserts rather than as a hard failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCodeUniqueViolation
	}
	return false
}

// IsForeignKeyViolation reports whether err is a foreign-key constraint
// violation, e.g. a trade referencing an order that has not been inserted
// yet — a sign the caller's phase ordering is broken.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCodeForeignKeyViolation
	}
	return false
}
