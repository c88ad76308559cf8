// Package twofactor decides, per request, whether the caller has proven
// possession of their TOTP device in the current browser session.
//
// Proof is a signed claim cookie (default name "2fa_verified") holding the user
// id, a SHA-256 fingerprint of the login session token, and issue and expiry
// times in Unix milliseconds. The claim is valid for seven days, but only
// while the same login session is presented: every login rotates the session
// token, which orphans any claim minted earlier.
//
// Whether a claim is needed at all is a policy of the subject (IsRequired):
// users without 2FA never need one, and password logins verify the code inline.
// Federated logins start in RequiredUnverified and move to RequiredVerified once
// SetVerified has been called after a successful code check.
//
//	tf, err := twofactor.New(cfg, sessions, twofactor.WithSecureCookie(env.IsProduction()))
//
//	if err := tf.EnsureUnlocked(r, subject); err != nil {
//	    // 403, err.Error() == "Two-factor verification required"
//	}
//
// Rejections are uniform towards the client. The concrete reason (expired,
// session_mismatch, bad_signature, ...) is logged at debug level.
package twofactor
