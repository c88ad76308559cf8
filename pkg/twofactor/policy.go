package twofactor

// ProviderCredentials is the password login path. It asks for the TOTP code
// inline, so a session created through it has already proven the second factor.
const ProviderCredentials = "credentials"

// Subject is what the policy needs to know about the signed-in user and how the
// current session was established.
type Subject struct {
	UserID           string
	TwoFactorEnabled bool
	AuthProvider     string
}

// IsRequired reports whether the session must hold a claim before privileged
// actions. Only users with 2FA enabled who signed in through a path that skipped
// the TOTP challenge (federated SSO) are affected.
func IsRequired(s Subject) bool {
	return s.TwoFactorEnabled && s.AuthProvider != ProviderCredentials
}

// State is the per-session two-factor state.
type State int

const (
	NotRequired State = iota
	RequiredUnverified
	RequiredVerified
)

func (s State) String() string {
	switch s {
	case NotRequired:
		return "not_required"
	case RequiredUnverified:
		return "required_unverified"
	case RequiredVerified:
		return "required_verified"
	default:
		return "unknown"
	}
}

// Unlocked reports whether privileged actions are allowed in this state.
func (s State) Unlocked() bool {
	return s != RequiredUnverified
}

// StateOf combines the policy with the outcome of the claim check.
func StateOf(s Subject, verified bool) State {
	switch {
	case !IsRequired(s):
		return NotRequired
	case verified:
		return RequiredVerified
	default:
		return RequiredUnverified
	}
}
