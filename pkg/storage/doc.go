// Package storage provides the persistence layer for TaskHub: SQL
// repositories for users, todos and categories, the Redis-backed todo
// listing cache, and attachment blob stores.
//
// # Repositories
//
// Repositories are explicit functions on Store returning plain records;
// there is no ORM and no lazy loading. Ownership scoping is built into
// the queries: GetTodoOwned, UpdateTodo and DeleteTodo all filter by
// (id, user_id), so a todo owned by someone else is indistinguishable
// from a missing one.
//
//	store, err := storage.NewStore(cfg, logger)
//	todos, err := store.ListTodosByUser(ctx, user.ID)
//
// Store implements auth.CredentialStore and auth.CategoryResolver, so
// the auth core consumes it through narrow interfaces.
//
// # Migrations
//
// Schema changes are an ordered Migration slice applied by
// RunMigrations with progress tracked in schema_migrations. The DDL is
// PostgreSQL; repository queries stay portable so the storage tests run
// against in-memory SQLite.
//
// # Todo Cache
//
//	cache := storage.NewTodoCache(redisClient, time.Hour, metrics)
//	todos, err := cache.GetUserTodos(ctx, userID) // (nil, nil) on miss
//	cache.SetUserTodos(ctx, userID, todos)
//	cache.InvalidateUserTodos(ctx, userID) // on every todo mutation
//
// The cache fails open: Redis errors surface to the caller, who falls
// through to the database. A corrupt cached payload is deleted and
// treated as a miss.
//
// # Attachments
//
// BlobStore has filesystem and S3 implementations, selected by
// Config.AttachmentBackend. Keys look like "todos/42/<uuid>-report.pdf".
// The S3 backend supports MinIO endpoints with path-style addressing.
package storage
