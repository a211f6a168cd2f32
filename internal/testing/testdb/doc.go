// Package testdb gives tests an isolated SurrealDB namespace with the Folio
// schema applied.
//
// Tests that use it are skipped unless TEST_DB_HOST is set, so the default
// test run needs no database:
//
//	TEST_DB_HOST=localhost go test ./internal/repository/...
//
// Each call to New gets its own namespace, removed again when the test ends.
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    repo := repository.NewPageRepository(tdb.DB)
//	    ...
//	}
//
// Subtests that share one namespace call Reset between runs.
package testdb
