// Package service implements the business logic layer for the Folio API.
//
// The service package contains all domain logic, validation rules, and
// orchestration of repository operations. Services are the primary
// abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Mutating methods take the caller's *model.Identity and check it with Authorize
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Slugs
//
// Every slugged resource resolves its slug with model.ResolveSlug and checks
// it with the repository's SlugTaken before writing. The UNIQUE index on slug
// catches writers that race past the check; both paths report ErrDuplicateSlug.
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables
// in errors.go:
//
//	var (
//	    ErrNotFound      = errors.New("resource not found")
//	    ErrDuplicateSlug = errors.New("slug already in use")
//	)
//
// Invalid input is returned as a *ValidationError carrying one entry per field.
//
// # Example Usage
//
//	posts := NewPostService(PostServiceConfig{
//	    Repo:     postRepository,
//	    Users:    userRepository,
//	    Renderer: renderer,
//	})
//	post, err := posts.Create(ctx, identity, &model.CreatePostRequest{
//	    Title: "Hello, World!",
//	})
package service
