// Package events fans out ticket-processed notifications.
//
// Components subscribe to a Bus by name instead of wrapping each other.
// Publish delivers synchronously in registration order, and one failing
// subscriber never keeps the rest from seeing the event. Events carry counts
// and codes only, never ticket text.
package events
