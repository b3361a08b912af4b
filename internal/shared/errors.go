package shared

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"apibaseline/internal/version"
)

// Message prefixes identifying the error kinds callers branch on. The CLI
// maps them to exit codes.
const (
	InvalidComparisonPrefix      = "invalid comparison"
	UnsatisfiedRequirementPrefix = "unsatisfied requirement"
	BaselineMismatchPrefix       = "baseline mismatch"
	InvalidFilterPrefix          = "invalid filter"
)

// InvalidComparison rejects a Diff request whose snapshots cannot be
// compared: mismatched roots or malformed elements.
func InvalidComparison(format string, args ...any) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(InvalidComparisonPrefix + ": " + fmt.Sprintf(format, args...))
}

// UnsatisfiedRequirement reports a mandatory requirement left without
// candidates after filtering.
func UnsatisfiedRequirement(format string, args ...any) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(UnsatisfiedRequirementPrefix + ": " + fmt.Sprintf(format, args...))
}

func BaselineMismatch(format string, args ...any) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(BaselineMismatchPrefix + ": " + fmt.Sprintf(format, args...))
}

func InvalidFilter(filter string, cause error) error {
	b := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s: %q", InvalidFilterPrefix, filter))
	if cause != nil {
		b = b.WithCause(cause)
	}
	return b
}

func IsMalformedVersion(err error) bool {
	return hasKind(err, errbuilder.CodeInvalidArgument, version.MalformedPrefix)
}

func IsInvalidComparison(err error) bool {
	return hasKind(err, errbuilder.CodeFailedPrecondition, InvalidComparisonPrefix)
}

func IsUnsatisfiedRequirement(err error) bool {
	return hasKind(err, errbuilder.CodeNotFound, UnsatisfiedRequirementPrefix)
}

func IsBaselineMismatch(err error) bool {
	return hasKind(err, errbuilder.CodeFailedPrecondition, BaselineMismatchPrefix)
}

func IsInvalidFilter(err error) bool {
	return hasKind(err, errbuilder.CodeInvalidArgument, InvalidFilterPrefix)
}

// ErrorMessage returns the builder message of err when it carries one.
func ErrorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}

func hasKind(err error, code errbuilder.ErrCode, prefix string) bool {
	if err == nil {
		return false
	}
	return errbuilder.CodeOf(err) == code && strings.HasPrefix(ErrorMessage(err), prefix)
}
