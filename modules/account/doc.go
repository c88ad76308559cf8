// Package account exposes boardly sign-in and two-factor management over HTTP.
//
// Router mounts:
//
//	POST /auth/register                  create a password account
//	POST /auth/login                     password login, TOTP code inline when enabled
//	POST /auth/logout                    destroy the session and clear the claim
//	GET  /auth/oauth/{provider}          redirect to the identity provider
//	GET  /auth/oauth/{provider}/callback finish a federated login
//	GET  /security/2fa                   two-factor status of the current session
//	POST /security/2fa/setup             start enrollment
//	POST /security/2fa/enable            confirm enrollment, returns recovery codes
//	POST /security/2fa/verify            TOTP code, marks the session verified
//	POST /security/2fa/recover           recovery code, marks the session verified
//	POST /security/2fa/disable           remove the second factor
//	GET  /api/me                         example route behind RequireUnlocked
//
// Federated sessions of users with two-factor enabled stay locked out of
// privileged routes until /verify or /recover succeeds. Password sessions
// never need that step because the code is part of /auth/login.
//
// All responses are JSON and carry Cache-Control: no-store.
package account
