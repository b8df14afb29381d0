// Package auth resolves the caller of a game RPC.
//
// Production deployments configure a play-token verifier: callers send
// "authorization: Bearer <token>", an Ed25519 JWT minted by the account
// system whose subject is the user id. Without a verifier the service runs in
// development mode and trusts the x-nightbus-user-id and x-nightbus-role
// headers.
package auth
