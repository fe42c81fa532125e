// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package middleware provides HTTP middleware shared by the API router:
// request ID propagation into the logging context and Prometheus request
// instrumentation.
//
// Both are written as http.HandlerFunc decorators; the api package adapts
// them to chi's func(http.Handler) http.Handler form.
package middleware
