// Package ladder decides how an action category changes a member's role set.
//
// Categories are a closed set. Each one is dispatched through a Table to one of
// three behaviours:
//   - ladder: an ordered list of mutually exclusive tier roles, lowest first;
//     an action moves the member one tier up and stops at the top tier
//   - marker: a single role that is either held or not
//   - notify: no role change at all, the action only produces an audit entry
//
// The Engine is pure: it never talks to Discord. Callers apply the returned
// Decision (remove first, then add) and emit the audit entry themselves.
package ladder
