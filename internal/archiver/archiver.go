/**
* Name: 			archiver.go
* Description: 		업로드 음성 파일 임시 보관
* Workflow: 		multipart 파일 -> 임시 파일(upload-*) -> AI 서버 전달 후 삭제
 */

package archiver

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"record_service/internal/logging"
)

const stagingPattern = "upload-*"

type Archiver struct {
	dir    string
	logger *zap.Logger
}

// NewArchiver stages files under dir, or the OS temp dir when dir is empty.
func NewArchiver(dir string, logger *zap.Logger) (*Archiver, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("NewArchiver(): failed to create temp directory: %w", err)
	}
	return &Archiver{dir: dir, logger: logging.OrNop(logger)}, nil
}

// Dir returns the staging directory.
func (a *Archiver) Dir() string {
	return a.dir
}

// Stage copies src into a new temp file and returns its path. The caller owns
// the file and must Release it.
func (a *Archiver) Stage(src io.Reader, fileName string) (string, error) {
	f, err := os.CreateTemp(a.dir, stagingPattern+safeExt(fileName))
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}
	path := f.Name()

	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write staged file: %w", err)
	}

	a.logger.Debug("upload staged", zap.String("path", path), zap.Int64("bytes", n))
	return path, nil
}

// Release deletes a staged file. A file that is already gone is not an error.
func (a *Archiver) Release(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.logger.Warn("failed to delete staged file", zap.String("path", path), zap.Error(err))
		return
	}
	a.logger.Debug("staged file deleted", zap.String("path", path))
}

// 원본 파일명의 확장자만 유지 (경로 조작 방지)
func safeExt(fileName string) string {
	ext := filepath.Ext(filepath.Base(fileName))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\*`) {
		return ""
	}
	return ext
}
