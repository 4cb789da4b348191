// Package sources provides interfaces and implementations for retrieving
// content collections from external sources and forwarding edits back to them.
//
// Architecture:
//   - SourceHandler: fetches and validates a resource's full collection
//   - SourceWriter: forwards create, update and delete to the system of record
//   - SourceDataValidator: decodes collection data and checks record identities
//   - StorageManager: keeps the last good collection on disk for warm restarts
//
// Current implementations:
//   - APISourceHandler: reads {endpoint}/api/{path} from the upstream REST backend,
//     with retries for transient failures and optional envelope unwrapping
//   - fileSourceHandler: reads a JSON array from the local filesystem; read-only
//
// The package provides a factory for creating the handler and writer matching a
// resource's source type.
package sources
