package repository

// Tx is an infra-defined transaction handle passed to repositories as `qx`
// (pgx.Tx for Postgres). Repositories MUST accept nil for the non-transactional path.
type Tx = any
