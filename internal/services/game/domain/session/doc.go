// Package session models an active playthrough: the pointer from a character
// to the page it is reading. A character has at most one session.
package session
