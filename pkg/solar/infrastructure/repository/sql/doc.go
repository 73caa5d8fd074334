// Package sql implements the solarsink stores with GORM entities written through a tx.Session.
package sql
