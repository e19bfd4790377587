package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// relocate moves a loaded file into the done directory under its original
// name. Rename is atomic on the same filesystem; across filesystems it falls
// back to copy-then-delete and never leaves a partial destination behind.
func relocate(src, doneDir, name string) error {
	dest := filepath.Join(doneDir, name)
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("move %s: %w", name, err)
	}
	if err := copyThenDelete(src, dest); err != nil {
		return fmt.Errorf("move %s across filesystems: %w", name, err)
	}
	return nil
}

func copyThenDelete(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return err
	}
	return os.Remove(src)
}
