package twofactor

import "errors"

// Message is the only text a client ever sees when a privileged request is
// refused for lack of a valid claim.
const Message = "Two-factor verification required"

var (
	// ErrVerificationRequired is returned by EnsureUnlocked. Its text is Message
	// so it can be shown as is.
	ErrVerificationRequired = errors.New(Message)

	// ErrSessionBinding is returned when a claim is minted without a login
	// session to bind it to.
	ErrSessionBinding = errors.New("twofactor.session_binding: no active session to bind the claim to")

	// ErrConfiguration marks fatal setup problems, most notably a missing signing secret.
	ErrConfiguration = errors.New("twofactor.configuration")

	ErrMissingSecret = errors.New("two-factor signing secret is not configured")
)
