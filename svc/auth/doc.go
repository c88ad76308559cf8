// Package auth signs boardly users in.
//
// Service.Register and Service.Authenticate implement email and password
// accounts with bcrypt hashes. Service.SignIn completes a federated login
// through a ProviderAdapter; adapters for Google and GitHub are built on
// golang.org/x/oauth2.
//
// The provider id returned by ProviderAdapter.ProviderID is what the session
// records as its auth provider, and it decides whether the two-factor policy
// applies on top of the login.
//
// Accounts are kept in a Storage; MemoryStorage serves tests and single-node
// demos, PostgresStorage uses the users and user_identities tables from
// internal/db.
package auth
