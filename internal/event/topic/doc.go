// Package topic provides hierarchical event topics and wildcard matching.
//
// Topics use dot notation, e.g. "buffer.changed" or "ingress.session.closed".
// Subscription patterns may contain wildcards:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	topic.Topic("ingress.session.opened").Matches("ingress.*.opened") // true
//	topic.Topic("ingress.session.opened").Matches("ingress.**")       // true
//	topic.Topic("buffer.changed").Matches("ingress.**")               // false
package topic
