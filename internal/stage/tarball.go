// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ArchivePath is where the downloaded tarball is cached.
func (s *Stage) ArchivePath() string {
	name := path.Base(s.cfg.Recipe.URLFor(s.version.ID))
	if name == "" || name == "." || name == "/" {
		name = "source.tar.gz"
	}
	return filepath.Join(s.Dir(), name)
}

func (s *Stage) fetchTarball(ctx context.Context) error {
	url := s.cfg.Recipe.URLFor(s.version.ID)
	archive := s.ArchivePath()

	if sum, err := fileSHA256(archive); err == nil && strings.EqualFold(sum, s.version.SHA256) {
		s.logger.Debug("reusing cached archive", "path", archive)
	} else {
		if err := s.download(ctx, url, archive); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(s.SourceDir()); err != nil {
		return fmt.Errorf("clear source directory: %w", err)
	}
	s.logger.Info("extracting source", "archive", archive, "dest", s.SourceDir())
	if err := extractTarGz(archive, s.SourceDir()); err != nil {
		return &FetchError{Source: archive, Err: err}
	}
	return nil
}

// download writes url to dest through a temporary file, verifying the
// recipe checksum before the rename.
func (s *Stage) download(ctx context.Context, url, dest string) error {
	s.logger.Info("downloading source", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Source: url, Err: err}
	}
	resp, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return &FetchError{Source: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &FetchError{Source: url, Err: fmt.Errorf("unexpected HTTP status %s", resp.Status)}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("create download file: %w", err)
	}
	defer os.Remove(tmp.Name())

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), resp.Body); err != nil {
		_ = tmp.Close()
		return &FetchError{Source: url, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close download file: %w", err)
	}

	if got := hex.EncodeToString(h.Sum(nil)); !strings.EqualFold(got, s.version.SHA256) {
		return &ChecksumError{File: url, Want: s.version.SHA256, Got: got}
	}
	return os.Rename(tmp.Name(), dest)
}

// extractTarGz unpacks archive into dest, dropping the leading directory
// GitHub-style tarballs wrap their contents in.
func extractTarGz(archive, dest string) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		rel, ok := stripLeading(hdr.Name)
		if !ok {
			continue
		}
		if !filepath.IsLocal(rel) {
			return fmt.Errorf("%w: %s", ErrUnsafeArchive, hdr.Name)
		}
		target := filepath.Join(dest, rel)
		if err := checkNoSymlink(dest, rel, hdr.Typeflag != tar.TypeDir); err != nil {
			return fmt.Errorf("%w: %s", err, hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if filepath.IsAbs(hdr.Linkname) || !filepath.IsLocal(filepath.Join(filepath.Dir(rel), hdr.Linkname)) {
				return fmt.Errorf("%w: %s -> %s", ErrUnsafeArchive, hdr.Name, hdr.Linkname)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		}
	}
}

// checkNoSymlink refuses entries whose parent directories inside dest are
// symlinks, and, when leaf is set, entries that would overwrite one.
func checkNoSymlink(dest, rel string, leaf bool) error {
	dir := dest
	parts := strings.Split(rel, string(filepath.Separator))
	if !leaf {
		parts = parts[:len(parts)-1]
	}
	for _, part := range parts {
		dir = filepath.Join(dir, part)
		fi, err := os.Lstat(dir)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if fi.Mode()&fs.ModeSymlink != 0 {
			return ErrUnsafeArchive
		}
	}
	return nil
}

// stripLeading drops the first path element. Entries that are only the
// leading directory report false.
func stripLeading(name string) (string, bool) {
	name = strings.TrimLeft(strings.TrimPrefix(name, "./"), "/")
	_, rest, ok := strings.Cut(name, "/")
	if !ok || rest == "" {
		return "", false
	}
	return filepath.FromSlash(rest), true
}

func writeFile(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm|0o200)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func fileSHA256(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
