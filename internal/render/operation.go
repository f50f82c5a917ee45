package render

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Operation is one staged filesystem action of a render plan.
//
// Validate checks the operation would succeed without performing it.
// Execute performs it; call only after Validate. Description is the
// human-readable form shown in dry runs.
type Operation interface {
	Validate(ctx context.Context) error
	Execute(ctx context.Context) error
	Description() string
}

// MkdirOp creates one output directory with the source tree's mode.
type MkdirOp struct {
	Path string // absolute output path
	Rel  string // output-relative path, for descriptions
	Mode fs.FileMode
}

func (op *MkdirOp) Validate(ctx context.Context) error {
	if op.Path == "" {
		return fmt.Errorf("mkdir with empty path")
	}
	return nil
}

func (op *MkdirOp) Execute(ctx context.Context) error {
	return os.MkdirAll(op.Path, op.Mode.Perm())
}

func (op *MkdirOp) Description() string {
	return fmt.Sprintf("Create directory %s/", op.Rel)
}

// WriteFileOp writes rendered content to a new file.
type WriteFileOp struct {
	Path    string
	Rel     string
	Content []byte // may be empty, must not be nil
	Mode    fs.FileMode
}

func (op *WriteFileOp) Validate(ctx context.Context) error {
	if op.Content == nil {
		return fmt.Errorf("nil content for file %s", op.Rel)
	}
	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(op.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(op.Path, op.Content, op.Mode.Perm())
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Render %s (%d bytes)", op.Rel, len(op.Content))
}

// CopyFileOp copies a plain file byte-for-byte, keeping its mode so
// executable scripts stay executable.
type CopyFileOp struct {
	Src  string // absolute source path
	Path string
	Rel  string
	Mode fs.FileMode
}

func (op *CopyFileOp) Validate(ctx context.Context) error {
	if _, err := os.Stat(op.Src); err != nil {
		return fmt.Errorf("copy source missing: %w", err)
	}
	return nil
}

func (op *CopyFileOp) Execute(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(op.Path), 0o755); err != nil {
		return err
	}

	src, err := os.Open(op.Src)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(op.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, op.Mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func (op *CopyFileOp) Description() string {
	return fmt.Sprintf("Copy %s", op.Rel)
}
