// Package database handles relational store connections.
//
// It provides a wrapper around GORM to configure MySQL connections for the
// server deployment and SQLite connections for tests and local tooling.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
