// Package events defines the topics and payloads published on the scribe
// event bus.
package events
