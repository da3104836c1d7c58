package main

import (
	"io"
	"os"

	eqnos "github.com/alnah/go-eqnos"
	"github.com/alnah/go-eqnos/internal/pandoc"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Runner eqnos.CommandRunner
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
		Runner: &pandoc.ExecRunner{},
	}
}
