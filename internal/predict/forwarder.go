package predict

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"record_service/internal/logging"
)

// AI 서버 응답 본문 최대 크기
const maxResponseBytes = 10 << 20

// Prediction is the AI server's answer, passed back to the caller untouched.
type Prediction struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Forwarder posts staged uploads to the AI prediction server.
type Forwarder struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(url string, timeout time.Duration, logger *zap.Logger) *Forwarder {
	return &Forwarder{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.OrNop(logger),
	}
}

// Forward sends the file at filePath as multipart field "file" together with
// the "recordIdx" field. Any HTTP status from the AI server is a valid
// Prediction; only transport failures are errors.
func (f *Forwarder) Forward(ctx context.Context, filePath, fileName, recordIdx string) (*Prediction, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open staged file: %w", err)
	}
	defer file.Close()

	if fileName == "" {
		fileName = filepath.Base(filePath)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(mw, file, fileName, recordIdx))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	started := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("call ai server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read ai server response: %w", err)
	}

	f.logger.Info("prediction forwarded",
		zap.String("recordIdx", recordIdx),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	return &Prediction{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func writeForm(mw *multipart.Writer, file io.Reader, fileName, recordIdx string) error {
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	if err := mw.WriteField("recordIdx", recordIdx); err != nil {
		return err
	}
	return mw.Close()
}
