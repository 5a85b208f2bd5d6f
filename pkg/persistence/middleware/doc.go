// Package middleware decorates trace stores. Traces can be sealed with
// AES-GCM and payload fields redacted before they reach storage.
package middleware
