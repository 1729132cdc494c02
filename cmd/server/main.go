// Package main implements the scry-study command: the HTTP server that turns
// uploaded study documents into summaries, questions and flashcards, plus
// the maintenance commands that run migrations and mint bearer tokens.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
