// Package store provides durable storage for transform session traces.
//
// A session records one Transform run: the settings name, the starting
// rotor positions, and one step row per alphabetic character (input letter,
// lamp letter, rotor positions after stepping). The store is an append-only
// history for inspection; the machine never restores rotor state from it.
//
// Uses SQLite with WAL mode for concurrent read access.
package store
