// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package api provides the HTTP interface for Reelmatch.

Routes are served by a Chi router under /api/v1:

	POST /users                          create a user (password is bcrypt hashed)
	GET  /users                          list users
	GET  /users/{userID}                 get one user
	GET  /users/{userID}/activity        the user's watch events and ratings
	POST /categories                     create a category
	GET  /categories                     list categories
	POST /titles                         create a title with category_ids
	GET  /titles                         list titles
	GET  /titles/{titleID}               get one title
	POST /watch-events                   record a watch event
	POST /ratings                        record a 1-5 rating
	GET  /recommendations/{userID}       recommendations (?n=)
	GET  /recommendations/{userID}/history  served recommendation journal (?limit=)
	DELETE /recommendations/{userID}/history  clear the journal for one user

/health and /metrics sit outside the versioned prefix.

Every JSON response uses the APIResponse envelope:

	{"status": "success", "data": ..., "metadata": {"timestamp": ..., "query_time_ms": 3}}
	{"status": "error", "metadata": {...}, "error": {"code": "USER_NOT_FOUND", "message": "..."}}

Recommendations re-cluster the whole catalog on every call, so they are
throttled per user with a token bucket in addition to the global per-IP
limit applied by httprate. Popularity scores are raw watch counts and are
not bounded above.
*/
package api
