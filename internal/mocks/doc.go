// Package mocks provides hand-written mocks of the interfaces that cross
// package boundaries, so tests in different packages script them the same
// way.
//
// Each mock has function fields that take precedence when set, and default
// return values used otherwise:
//
//	client := &mocks.MockGenerationClient{
//	    GenerateFn: func(ctx context.Context, text string, mcqCount int) (string, error) {
//	        return `{"summary":"..."}`, nil
//	    },
//	}
//
// Mocks that are called concurrently record their calls behind a mutex.
package mocks
