package io

import (
	"io"
)

type (
	// File is one generated artifact, addressed by its relative output path.
	File interface {
		Path() string
		WriteTo(io.Writer) (int64, error)
	}

	// RawFile holds its full content in memory.
	RawFile struct {
		FPath   string
		Content []byte
	}
)

func (r *RawFile) Path() string {
	return r.FPath
}

func (r *RawFile) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Content)
	return int64(n), err
}
