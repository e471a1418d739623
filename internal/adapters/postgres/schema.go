package postgres

import _ "embed"

// Schema is the full DDL for the postgres backend. Applied by deployment
// tooling and by the contract test harness.
//
//go:embed schema.sql
var Schema string
