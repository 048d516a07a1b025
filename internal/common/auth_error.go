package common

import "errors"

// Identity provider error codes.
const (
	AuthInvalidEmail        = "auth/invalid-email"
	AuthMissingEmail        = "auth/missing-email"
	AuthWrongPassword       = "auth/wrong-password"
	AuthUserNotFound        = "auth/user-not-found"
	AuthEmailAlreadyInUse   = "auth/email-already-in-use"
	AuthWeakPassword        = "auth/weak-password"
	AuthUserDisabled        = "auth/user-disabled"
	AuthOperationNotAllowed = "auth/operation-not-allowed"
)

const unknownAuthMessage = "Unknown error, please try again."

var authMessages = map[string]string{
	AuthInvalidEmail:        "Invalid Email / Password.",
	AuthWrongPassword:       "Invalid Email / Password.",
	AuthUserNotFound:        "No user found with this email.",
	AuthOperationNotAllowed: "Server error, please try again.",
	AuthEmailAlreadyInUse:   "Email already used.",
	AuthWeakPassword:        "Weak password.",
	AuthUserDisabled:        "User disabled.",
	AuthMissingEmail:        "Please enter an email.",
}

// AuthError is a credential failure reported by the identity provider.
// Error returns the human-readable message for Code.
type AuthError struct {
	Code string
}

// NewAuthError returns an AuthError for the given provider code.
func NewAuthError(code string) *AuthError {
	return &AuthError{Code: code}
}

func (e *AuthError) Error() string {
	return AuthMessage(e.Code)
}

// AuthMessage maps a provider code to its fixed message. Unknown codes map
// to a generic fallback.
func AuthMessage(code string) string {
	if msg, ok := authMessages[code]; ok {
		return msg
	}
	return unknownAuthMessage
}

// AuthCode extracts the provider code from err, or "" if err is not an
// AuthError.
func AuthCode(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
