// Package repository implements the data access layer for the Folio API.
//
// The repository package contains all database operations using SurrealDB.
// Each repository struct handles CRUD operations for one table.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Create, GetByID, Update, Delete, etc.)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//
// The queries shared by every table live on collection: lookups by id and
// slug, slug existence checks, paginated listing and SET-based writes.
//
// # Lookups
//
// GetByID and GetBySlug return nil, nil when nothing matches. A write that
// violates a UNIQUE index fails with database.ErrDuplicate.
//
// # Query Patterns
//
//   - Parameterized queries with $variable syntax
//   - type::record() for safe ID handling
//   - time::now() for automatic timestamps
//
// # Example Usage
//
//	repo := NewPostRepository(db)
//	post, err := repo.GetBySlug(ctx, "hello-world")
//	if err != nil {
//	    return err
//	}
//	if post == nil {
//	    // Handle not found
//	}
package repository
