// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config file, .env files and SCRY_-prefixed
// environment variables. It provides type-safe access to the settings of
// the server, the LLM client, the retry/chunking policies and the worker
// pool while keeping configuration details separate from business logic.
package config
