// Package services defines shared error semantics consumed by the
// relocation pipeline and the external tool integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that keep failure
//     classification uniform across components.
//   - Skip sentinels that distinguish "nothing to do for this file" from
//     genuine per-file failures.
package services
