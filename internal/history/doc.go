// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package history journals served recommendation lists in BadgerDB.
//
// The journal is write-only from the engine's point of view: it records what
// was returned to a user and when, so operators and clients can look back at
// past lists. It never feeds back into scoring and is not a cache; every
// recommendation request still recomputes from the catalog.
//
// Keys are laid out as
//
//	served:<user id, 10 digits>:<inverted unix nanos, 20 digits>:<request id>
//
// so a prefix scan over one user yields entries newest first. Entries expire
// through Badger's TTL when a retention period is configured.
package history
