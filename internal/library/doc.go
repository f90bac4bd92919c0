// Package library enumerates the destination subdirectories of the pictures
// root.
//
// List reads the root once, stats every child, and keeps directories only.
// Each Entry carries the three timestamps the picker can sort by plus a count
// of image files directly inside it. A root that cannot be read surfaces as an
// *AccessError; nothing is retried.
package library
