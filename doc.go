// Package actions provides the account-action primitives of a photo-sharing
// application: signed action tokens, the sensitive mutations they authorize,
// notification emission, and asynchronous mail dispatch.
//
// Action tokens:
//   - ActionTokens issues short-lived, tamper-evident tokens that authorize a
//     single account mutation (confirm account, reset password, change email)
//     for a single user, without requiring an authenticated session when the
//     token is presented.
//   - ValidateActionHandler decodes a presented token and applies the
//     authorized mutation inside one transaction. Every failure mode that an
//     attacker could probe (bad signature, expiry, operation or subject
//     mismatch) surfaces as the same ErrTokenInvalid value; the concrete
//     reason is only logged.
//
// Collaborator stores:
//   - RepositoryManager exposes the Users, Notifications, and ConsumedTokens
//     stores plus RunInTx so validate-and-mutate sequences commit atomically.
//     Implementations are Bun-backed; narrow interfaces keep handlers
//     testable.
//
// Mail:
//   - Dispatcher runs a fixed-size worker pool over a bounded queue. Dispatch
//     never blocks the request path; when the queue is full it returns
//     ErrMailQueueFull instead of spawning unbounded goroutines.
package actions
