// Package sanitizer provides input normalization for rooms, meetings and privileged users.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, typically by returning
// empty strings or empty slices rather than errors; validation runs afterwards.
//
// Normalization includes:
//   - Strings: Collapse whitespace, trim leading/trailing spaces
//   - Emails: Trim and lowercase
//   - Access codes: Trim and uppercase, internal whitespace removed
//   - Slices: Normalize every element and drop empty values; de-duplication is opt-in
//     because meeting attendee lists preserve order and duplicates
package sanitizer
