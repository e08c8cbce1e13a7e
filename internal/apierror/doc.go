// Package apierror provides error inspection capabilities for CarrierX API errors.
// It centralizes the logic for identifying different kinds of failures returned
// by the HTTP transport or the API itself, so callers can map them onto the
// relay's sentinel errors without string matching of their own.
package apierror
