// Package api is the HTTP client for the Solace backend.
//
// # Overview
//
// Every outbound request goes through this package. The client attaches
// the stored access token as a bearer credential when one is present and
// parses JSON response bodies into the wire types defined here. It holds
// no business logic and no state beyond the base URL and credential
// source.
//
// # Operations
//
//   - Authentication: Login, Signup, VerifyEmail, ForgotPassword,
//     ResetPassword, CurrentUser
//   - Chat: SendMessage, ListSessions, GetSession, DeleteSession
//   - Administration: Dashboard, ListUsers, ToggleUserActive
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError carrying the HTTP status
// and the backend's "detail" message. Callers classify failures with
// ErrorDetail and IsUnauthorized rather than string matching.
//
// # Credential Invalidation
//
// A 401 on any request, when a refresh token is stored, clears both
// stored tokens and fires the auth-expired hook. The backend has no
// refresh-exchange endpoint, so an expired access token cannot be
// renewed; forcing a fresh login is the only recovery.
package api
