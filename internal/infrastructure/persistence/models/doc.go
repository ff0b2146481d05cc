// Package models holds the GORM table mappings for the order ledger,
// shipment batches and precomputed statistics. The domain entities stay
// free of ORM tags; each model carries to/from-domain mappers used by
// the repositories in the parent package.
package models
