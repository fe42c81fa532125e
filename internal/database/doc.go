// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package database provides the DuckDB-backed catalog store.

The store holds categories, users, titles (with their category assignments),
watch events and ratings. Identifiers come from DuckDB sequences and are
returned with INSERT ... RETURNING.

# Catalog Reader

DB implements recommend.CatalogReader and recommend.SnapshotProvider. The
Snapshot method reads every table inside a single transaction so the
recommendation engine sees one consistent view of the catalog:

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

	engine, err := recommend.NewEngine(recCfg, db, logger)

# Errors

Lookups of missing rows return errors matching ErrNotFound. Unique key
violations return ErrConflict. Writes that reference a missing user, title or
category return ErrInvalidReference. Use errors.Is to test for them.

# Ordering

All list methods return rows in ascending ID order, which is insertion order.
The engine relies on this order for tie-breaking and for last-wins handling
of duplicate watch and rating records.
*/
package database
