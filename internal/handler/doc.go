// Package handler implements HTTP request handlers for the benchtrack API.
//
// This package provides the HTTP layer over the library, transfer, and
// material services: account and article CRUD, search, statistics,
// batch operations, dataset import/export, and the material library.
//
// # API Design
//
// All handlers follow REST conventions:
// - GET for retrieval
// - POST for creation
// - PUT for updates
// - DELETE for removal
//
// Errors are returned as JSON with appropriate HTTP status codes.
// Request bodies are validated before processing.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 201).
// Error responses return JSON with {error, details} structure.
//
// # Server-Sent Events
//
// The /api/events endpoint provides real-time store updates via SSE,
// allowing clients to receive live notifications of data changes.
package handler
