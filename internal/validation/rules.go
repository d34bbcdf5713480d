// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/openfoundry/releases/internal/errors"
)

var (
	// uidRegex matches foundation account uids: lowercase alphanumeric,
	// optionally separated by single hyphens, 1 to 40 characters.
	uidRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	// committeeNameRegex matches committee names, same shape as uids but
	// allowing dots for sub-projects.
	committeeNameRegex = regexp.MustCompile(`^[a-z0-9]+(?:[.-][a-z0-9]+)*$`)

	// fingerprintRegex matches a full 40-character hexadecimal OpenPGP v4
	// key fingerprint.
	fingerprintRegex = regexp.MustCompile(`^[0-9a-f]{40}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// UID validates a foundation account uid.
var UID = validation.NewStringRuleWithError(
	func(s string) bool {
		return len(s) <= 40 && uidRegex.MatchString(s)
	},
	validation.NewError("validation_uid_format",
		"must be lowercase alphanumeric with optional hyphens"),
)

// CommitteeName validates a committee name.
var CommitteeName = validation.NewStringRuleWithError(
	func(s string) bool {
		return len(s) <= 100 && committeeNameRegex.MatchString(s)
	},
	validation.NewError("validation_committee_name_format",
		"must be lowercase alphanumeric with optional hyphens or dots"),
)

// Fingerprint validates a full-length lowercase hexadecimal key fingerprint.
var Fingerprint = validation.NewStringRuleWithError(
	func(s string) bool {
		return fingerprintRegex.MatchString(s)
	},
	validation.NewError("validation_fingerprint_format",
		"must be a 40-character lowercase hexadecimal fingerprint"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
