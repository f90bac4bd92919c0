package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

var rename = os.Rename

// MoveFile renames src to dst. When the rename fails because the paths are
// on different filesystems and copyAcrossDevices is set, the file is copied
// with CopyFileVerified and src is removed afterwards. The returned bool
// reports whether the copy fallback was used.
func MoveFile(src, dst string, copyAcrossDevices bool) (bool, error) {
	err := rename(src, dst)
	if err == nil {
		return false, nil
	}
	if !copyAcrossDevices || !IsCrossDevice(err) {
		return false, err
	}
	if err := CopyFileVerified(src, dst); err != nil {
		return true, fmt.Errorf("copy across devices: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return true, fmt.Errorf("remove source after copy: %w", err)
	}
	return true, nil
}

// IsCrossDevice reports whether err is the EXDEV failure returned when a
// rename spans filesystems.
func IsCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}

// CopyFileVerified streams src to dst and verifies the result: the copied
// size must match the source and dst, read back from disk after closing,
// must hash to the same SHA256 as the bytes read from src. The source
// permissions and modification time are carried over. dst is removed when
// verification fails.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, srcHasher))
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	dstSum, err := fileSHA256(dst)
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("read back copy: %w", err)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstSum) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	mtime := srcInfo.ModTime()
	_ = os.Chtimes(dst, mtime, mtime)
	return nil
}

// openCopy opens a finished copy for read-back verification.
var openCopy = os.Open

func fileSHA256(path string) ([]byte, error) {
	f, err := openCopy(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
