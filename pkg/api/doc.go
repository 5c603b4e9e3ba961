// Package api implements the TaskHub HTTP API.
//
// # Overview
//
// Routing uses gorilla/mux with two /api/v1 subrouters: a public one
// (registration, login, the admin listing) and a protected one behind
// the bearer-token auth middleware (todos, categories, attachments,
// account deletion). Handlers are grouped per concern in *Handlers
// structs, each registering its own routes.
//
// # Endpoints
//
//	POST   /api/v1/users/register           register; 201 {user_id}
//	POST   /api/v1/users/login              login; 200 {access_token, token_type}
//	DELETE /api/v1/users/{id}               delete own account
//	POST   /api/v1/todos                    create todo
//	GET    /api/v1/todos                    list caller's todos (cached)
//	GET    /api/v1/todos/upcoming?days=N    todos due in the next N days
//	PUT    /api/v1/todos/{id}               update todo
//	DELETE /api/v1/todos/{id}               delete todo
//	POST   /api/v1/todos/{id}/attachment    upload attachment (multipart)
//	GET    /api/v1/todos/{id}/attachment    download attachment
//	POST   /api/v1/categories               create category
//	GET    /api/v1/categories               list caller's categories
//	GET    /api/v1/categories/{id}/todos    caller's todos in one category
//	DELETE /api/v1/categories/{id}          delete category
//	GET    /api/v1/admin/todos              list ALL todos (no auth; see AdminHandlers)
//
// # Error Mapping
//
// Domain errors map to statuses in one place (writeServiceError):
// validation failures are 400 with a field name, duplicates 409,
// credential and token failures a uniform 401, cross-user category
// references 400, missing resources 404. Unrecognized errors are logged
// and surface as a bare 500.
package api
