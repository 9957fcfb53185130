// Package kv is the durable key/value storage behind the content cache and
// the session records. Values are opaque bytes (JSON in practice); keys are
// stable strings chosen by the services.
//
// Contract
//
//   - Get returns (nil, nil) when the key is absent.
//   - Set upserts.
//   - Delete is idempotent.
//
// Implementations share one SQL schema (table "kv") and differ only in the
// placeholder dialect, see NewSQLiteRepository and NewPostgresRepository.
package kv
