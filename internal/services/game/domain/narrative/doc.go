// Package narrative models story content: a story is an ordered run of pages
// numbered 1..N, and each page offers options that carry a stat effect.
//
// Content is immutable once imported. Progress is linear: choosing any option
// on page n moves play to page n+1, and a story ends when no page n+1 exists.
package narrative
