// Package database provides database connectivity for the Folio API.
//
// # Connection Management
//
// Connect to SurrealDB over its websocket RPC endpoint:
//
//	db := database.NewSurrealDB(database.Config{
//	    Host:      "localhost",
//	    Port:      "8000",
//	    Namespace: "folio",
//	    Database:  "main",
//	    User:      "root",
//	    Password:  "secret",
//	})
//	if err := db.Connect(ctx); err != nil { ... }
//
// # Schema
//
// ApplySchema defines the tables and the UNIQUE indexes on slug, menu location
// and user email. A write that violates one of them fails with ErrDuplicate.
package database
