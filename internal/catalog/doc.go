// Package catalog reads the album list and resolves its artwork.
//
// The input is a headerless CSV with one "artist,title" record per line.
// Blank lines are skipped, surrounding whitespace is trimmed and extra
// columns are ignored. A record without a title is rejected with an
// INVALID_INPUT error naming the line.
//
// The Loader resolves every record through an artwork.Provider with
// bounded concurrency. Lookups that fail are replaced by a black
// placeholder album so one missing cover never aborts a build; the
// resulting catalog keeps the input order.
package catalog
