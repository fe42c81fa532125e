// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package supervisor runs Reelmatch's long-lived services under a suture v4 tree.

	RootSupervisor ("reelmatch")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── history-gc        (Badger value log GC, if history is enabled)
	│   └── catalog-stats     (catalog size gauges)
	└── APISupervisor ("api-layer")
	    └── http-server

Maintenance failures are restarted independently and never take the HTTP
server down with them. Supervisor events are logged through sutureslog,
bridged into zerolog by logging.SlogLogger.

The recommendation engine itself is not a service: it is stateless and runs
inside request handlers.
*/
package supervisor
