package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"record_service/internal/config"
	"record_service/internal/middleware"
	"record_service/internal/models"
	"record_service/internal/predict"
	"record_service/internal/record"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	mu sync.Mutex

	prediction *predict.Prediction
	records    []models.Record
	ackRecord  *models.Record
	err        error

	// listErrAfter fails ListUnacknowledged after n successful calls when > 0
	listErrAfter int
	listCalls    int

	gotCaller     string
	gotUpload     record.Upload
	gotUploadBody []byte
	gotDeviceType string
	gotDate       string
	gotRecordIdx  string
}

func (f *fakeService) SubmitRecording(_ context.Context, callerIdx string, upload record.Upload) (*predict.Prediction, error) {
	f.gotCaller = callerIdx
	f.gotUpload = upload
	if upload.Body != nil {
		f.gotUploadBody, _ = io.ReadAll(upload.Body)
	}
	return f.prediction, f.err
}

func (f *fakeService) ListUnacknowledged(_ context.Context, callerIdx string) ([]models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotCaller = callerIdx
	f.listCalls++
	if f.listErrAfter > 0 && f.listCalls > f.listErrAfter {
		return nil, &record.Error{Kind: record.KindInternal, Op: record.OpListUnacknowledged, Err: errors.New("db down")}
	}
	return f.records, f.err
}

func (f *fakeService) ListByDeviceTypeAndDate(_ context.Context, callerIdx, deviceType, dateString string) ([]models.Record, error) {
	f.gotCaller = callerIdx
	f.gotDeviceType = deviceType
	f.gotDate = dateString
	return f.records, f.err
}

func (f *fakeService) AcknowledgeRecord(_ context.Context, callerIdx, recordIdx string) (*models.Record, error) {
	f.gotCaller = callerIdx
	f.gotRecordIdx = recordIdx
	return f.ackRecord, f.err
}

func newTestRouter(svc RecordService) *gin.Engine {
	h := NewRecordHandler(svc, 20*time.Millisecond, nil)
	return NewRouter(h, config.Server{}, nil)
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func withCaller(req *http.Request, callerIdx string) *http.Request {
	req.Header.Set(middleware.UserIdxHeader, callerIdx)
	return req
}

func multipartUpload(t *testing.T, fileName string, content []byte, deviceType string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if deviceType != "" {
		require.NoError(t, mw.WriteField("deviceType", deviceType))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func sampleRecord(idx string, checked bool) models.Record {
	return models.Record{
		RecordIdx:   idx,
		UserIdx:     "100",
		DeviceType:  "watch",
		CreatedDate: "2024-02-10",
		CreatedAt:   time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC),
		Checked:     checked,
	}
}

func TestHealth(t *testing.T) {
	w := serve(newTestRouter(&fakeService{}), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRecordsRequireCallerHeader(t *testing.T) {
	r := newTestRouter(&fakeService{})

	paths := []struct{ method, path string }{
		{http.MethodPost, "/records/test/auth"},
		{http.MethodPost, "/records/input"},
		{http.MethodGet, "/records/unchecked"},
		{http.MethodGet, "/records/device-type/date?date=2024-02-10"},
		{http.MethodPost, "/records/r1/checked"},
	}
	for _, p := range paths {
		w := serve(r, httptest.NewRequest(p.method, p.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, p.path)
	}
}

func TestTestAuth(t *testing.T) {
	w := serve(newTestRouter(&fakeService{}), withCaller(httptest.NewRequest(http.MethodPost, "/records/test/auth", nil), "u1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Test successfully", w.Body.String())
}

func TestInputPassesPredictionThrough(t *testing.T) {
	svc := &fakeService{prediction: &predict.Prediction{
		StatusCode:  http.StatusAccepted,
		ContentType: "application/json",
		Body:        []byte(`{"label":"phishing","score":0.93}`),
	}}
	body, contentType := multipartUpload(t, "call.wav", []byte("RIFF-audio"), "Watch")

	req := withCaller(httptest.NewRequest(http.MethodPost, "/records/input", body), "u1")
	req.Header.Set("Content-Type", contentType)
	w := serve(newTestRouter(svc), req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `{"label":"phishing","score":0.93}`, w.Body.String())

	assert.Equal(t, "u1", svc.gotCaller)
	assert.Equal(t, "call.wav", svc.gotUpload.FileName)
	assert.Equal(t, "Watch", svc.gotUpload.DeviceType)
	assert.Equal(t, int64(len("RIFF-audio")), svc.gotUpload.Size)
	assert.Equal(t, []byte("RIFF-audio"), svc.gotUploadBody)
}

func TestInputDefaultsContentType(t *testing.T) {
	svc := &fakeService{prediction: &predict.Prediction{StatusCode: http.StatusOK, Body: []byte("ok")}}
	body, contentType := multipartUpload(t, "a.wav", []byte("x"), "")

	req := withCaller(httptest.NewRequest(http.MethodPost, "/records/input", body), "u1")
	req.Header.Set("Content-Type", contentType)
	w := serve(newTestRouter(svc), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Equal(t, "ok", w.Body.String())
}

func TestInputMissingFile(t *testing.T) {
	body, contentType := multipartUpload(t, "", nil, "watch")

	req := withCaller(httptest.NewRequest(http.MethodPost, "/records/input", body), "u1")
	req.Header.Set("Content-Type", contentType)
	w := serve(newTestRouter(&fakeService{}), req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"file is required"}`, w.Body.String())
}

func TestInputErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "internal",
			err:      &record.Error{Kind: record.KindInternal, Op: record.OpSubmitRecording, Err: errors.New("ai server: connection refused")},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"An error occurred while processing the file."}`,
		},
		{
			name:     "empty file",
			err:      &record.Error{Kind: record.KindBadRequest, Op: record.OpSubmitRecording},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"file must not be empty"}`,
		},
		{
			name:     "foreign error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"An error occurred while processing the file."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartUpload(t, "a.wav", []byte("x"), "")
			req := withCaller(httptest.NewRequest(http.MethodPost, "/records/input", body), "u1")
			req.Header.Set("Content-Type", contentType)

			w := serve(newTestRouter(&fakeService{err: tt.err}), req)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestGetUnchecked(t *testing.T) {
	svc := &fakeService{records: []models.Record{sampleRecord("r1", false)}}
	w := serve(newTestRouter(svc), withCaller(httptest.NewRequest(http.MethodGet, "/records/unchecked", nil), "u1"))

	require.Equal(t, http.StatusOK, w.Code)
	var got []models.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].RecordIdx)
	assert.Equal(t, "u1", svc.gotCaller)
}

func TestGetUncheckedEmptyIsArray(t *testing.T) {
	svc := &fakeService{records: []models.Record{}}
	w := serve(newTestRouter(svc), withCaller(httptest.NewRequest(http.MethodGet, "/records/unchecked", nil), "u1"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetUncheckedErrors(t *testing.T) {
	r := newTestRouter(&fakeService{err: &record.Error{Kind: record.KindUnauthorized, Op: record.OpListUnacknowledged}})
	w := serve(r, withCaller(httptest.NewRequest(http.MethodGet, "/records/unchecked", nil), "u1"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r = newTestRouter(&fakeService{err: &record.Error{Kind: record.KindInternal, Op: record.OpListUnacknowledged, Err: errors.New("sql: database is locked")}})
	w = serve(r, withCaller(httptest.NewRequest(http.MethodGet, "/records/unchecked", nil), "u1"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"An error occurred while retrieving unchecked records."}`, w.Body.String())
}

func TestGetByDeviceTypeAndDate(t *testing.T) {
	svc := &fakeService{records: []models.Record{sampleRecord("r1", true)}}
	req := withCaller(httptest.NewRequest(http.MethodGet, "/records/device-type/date?deviceType=watch&date=2024-02-10", nil), "u1")
	w := serve(newTestRouter(svc), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "watch", svc.gotDeviceType)
	assert.Equal(t, "2024-02-10", svc.gotDate)
	assert.Contains(t, w.Body.String(), `"recordIdx":"r1"`)
}

func TestGetByDeviceTypeAndDateBadDate(t *testing.T) {
	svc := &fakeService{err: &record.Error{Kind: record.KindBadRequest, Op: record.OpListByDeviceTypeAndDate}}
	req := withCaller(httptest.NewRequest(http.MethodGet, "/records/device-type/date?date=2024-02-30", nil), "u1")
	w := serve(newTestRouter(svc), req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid date, expected YYYY-MM-DD"}`, w.Body.String())
}

func TestUpdateChecked(t *testing.T) {
	rec := sampleRecord("r1", true)
	svc := &fakeService{ackRecord: &rec}
	w := serve(newTestRouter(svc), withCaller(httptest.NewRequest(http.MethodPost, "/records/r1/checked", nil), "u1"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "r1", svc.gotRecordIdx)
	assert.Contains(t, w.Body.String(), `"checked":true`)
}

func TestUpdateCheckedErrorMapping(t *testing.T) {
	tests := []struct {
		kind     record.Kind
		wantCode int
		wantBody string
	}{
		{record.KindForbidden, http.StatusForbidden, `{"error":"you are not authorized to update this record."}`},
		{record.KindNotFound, http.StatusNotFound, `{"error":"Record not found."}`},
		{record.KindUnauthorized, http.StatusUnauthorized, `{"error":"unauthorized"}`},
		{record.KindInternal, http.StatusInternalServerError, `{"error":"An error occurred while updating the record status."}`},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			svc := &fakeService{err: &record.Error{Kind: tt.kind, Op: record.OpAcknowledgeRecord}}
			w := serve(newTestRouter(svc), withCaller(httptest.NewRequest(http.MethodPost, "/records/r1/checked", nil), "u1"))
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func dialStream(t *testing.T, srv *httptest.Server, callerIdx string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/records/unchecked/stream"
	header := http.Header{}
	if callerIdx != "" {
		header.Set(middleware.UserIdxHeader, callerIdx)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func TestStreamUncheckedPushesFrames(t *testing.T) {
	svc := &fakeService{records: []models.Record{sampleRecord("r1", false)}}
	srv := httptest.NewServer(newTestRouter(svc))
	defer srv.Close()

	conn, _, err := dialStream(t, srv, "u1")
	require.NoError(t, err)
	defer conn.Close()

	for i := 0; i < 2; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var frame UncheckedFrame
		require.NoError(t, conn.ReadJSON(&frame))
		require.Len(t, frame.Records, 1)
		assert.Equal(t, "r1", frame.Records[0].RecordIdx)
	}
}

func TestStreamUncheckedRejectsBeforeUpgrade(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&fakeService{}))
	defer srv.Close()

	_, resp, err := dialStream(t, srv, "")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	srv2 := httptest.NewServer(newTestRouter(&fakeService{
		err: &record.Error{Kind: record.KindUnauthorized, Op: record.OpListUnacknowledged},
	}))
	defer srv2.Close()

	_, resp, err = dialStream(t, srv2, "u1")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStreamUncheckedClosesOnServiceError(t *testing.T) {
	svc := &fakeService{records: []models.Record{}, listErrAfter: 1}
	srv := httptest.NewServer(newTestRouter(svc))
	defer srv.Close()

	conn, _, err := dialStream(t, srv, "u1")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame UncheckedFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Empty(t, frame.Records)
	assert.NotNil(t, frame.Records)

	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseInternalServerErr))
}
