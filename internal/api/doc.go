// Package api exposes accounts, documents and study summaries over HTTP.
// Handlers decode and validate JSON requests, call the user and document
// services or the summary orchestrator, and map errors to status codes and safe messages
// with MapErrorToStatusCode and GetSafeErrorMessage.
//
// Generation and "generate more" requests run on the task pool and block
// until their task finishes; a client that disconnects cancels the work.
package api
