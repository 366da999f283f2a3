// Package errors provides the unified error type used across voicenotes.
//
// Every failure that crosses a package boundary is an *AppError carrying a
// machine-readable code, a message safe to show to the user and, when one
// exists, the underlying cause. The control server renders AppErrors as
// RFC 7807 style bodies through ToResponse.
package errors
