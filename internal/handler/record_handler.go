/**
* Name: 			record_handler.go
* Description: 		Gin 프레임워크의 Record HTTP 핸들러
* Workflow: 		음성 파일 업로드(AI 전달), 미확인 조회, 날짜별 조회, 확인 처리
 */
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"record_service/internal/logging"
	"record_service/internal/middleware"
	"record_service/internal/models"
	"record_service/internal/predict"
	"record_service/internal/record"
)

const (
	msgUnauthorized    = "unauthorized"
	msgForbidden       = "you are not authorized to update this record."
	msgNotFound        = "Record not found."
	msgInputFailed     = "An error occurred while processing the file."
	msgUncheckedFailed = "An error occurred while retrieving unchecked records."
	msgDateFailed      = "An error occurred while retrieving records."
	msgCheckedFailed   = "An error occurred while updating the record status."
)

// RecordService is the orchestrator the handlers call.
type RecordService interface {
	SubmitRecording(ctx context.Context, callerIdx string, upload record.Upload) (*predict.Prediction, error)
	ListUnacknowledged(ctx context.Context, callerIdx string) ([]models.Record, error)
	ListByDeviceTypeAndDate(ctx context.Context, callerIdx, deviceType, dateString string) ([]models.Record, error)
	AcknowledgeRecord(ctx context.Context, callerIdx, recordIdx string) (*models.Record, error)
}

type ErrorResponse struct {
	Error string `json:"error" example:"Record not found."`
}

type RecordHandler struct {
	svc          RecordService
	pollInterval time.Duration
	upgrader     websocket.Upgrader
	logger       *zap.Logger
}

// NewRecordHandler creates a handler. pollInterval drives the unchecked stream.
func NewRecordHandler(svc RecordService, pollInterval time.Duration, logger *zap.Logger) *RecordHandler {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &RecordHandler{
		svc:          svc,
		pollInterval: pollInterval,
		upgrader: websocket.Upgrader{
			// Origin 검사는 게이트웨이 담당
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logging.OrNop(logger),
	}
}

// TestAuth godoc
// @Summary      게이트웨이 인증 확인
// @Description  X-User-Idx 헤더가 전달되는지만 확인합니다.
// @Tags         Records
// @Produce      plain
// @Param        X-User-Idx header string true "게이트웨이가 전달한 사용자 식별자"
// @Success      200 {string} string "Test successfully"
// @Failure      401 {object} handler.ErrorResponse
// @Router       /records/test/auth [post]
func (h *RecordHandler) TestAuth(c *gin.Context) {
	c.String(http.StatusOK, "Test successfully")
}

// Input godoc
// @Summary      음성 파일 업로드
// @Description  Record 를 생성하고 파일을 AI 서버로 전달합니다. AI 서버 응답을 그대로 반환합니다.
// @Tags         Records
// @Accept       multipart/form-data
// @Produce      json
// @Param        X-User-Idx header   string true  "게이트웨이가 전달한 사용자 식별자"
// @Param        file       formData file   true  "음성 파일"
// @Param        deviceType formData string false "기기 종류"
// @Success      200 {object} object "AI 서버 응답"
// @Failure      400 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /records/input [post]
func (h *RecordHandler) Input(c *gin.Context) {
	callerIdx := middleware.UserIdx(c)
	h.logger.Info("[FileInput] received request", zap.String("callerIdx", callerIdx))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("open multipart file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInputFailed})
		return
	}
	defer file.Close()

	pred, err := h.svc.SubmitRecording(c.Request.Context(), callerIdx, record.Upload{
		Body:       file,
		FileName:   fileHeader.Filename,
		DeviceType: c.PostForm("deviceType"),
		Size:       fileHeader.Size,
	})
	if err != nil {
		h.writeError(c, err, msgInputFailed)
		return
	}

	contentType := pred.ContentType
	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}
	c.Data(pred.StatusCode, contentType, pred.Body)
}

// GetUnchecked godoc
// @Summary      미확인 Record 조회
// @Description  checked 가 false 인 호출자의 Record 목록을 반환합니다.
// @Tags         Records
// @Produce      json
// @Param        X-User-Idx header string true "게이트웨이가 전달한 사용자 식별자"
// @Success      200 {array}  models.Record
// @Failure      401 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /records/unchecked [get]
func (h *RecordHandler) GetUnchecked(c *gin.Context) {
	records, err := h.svc.ListUnacknowledged(c.Request.Context(), middleware.UserIdx(c))
	if err != nil {
		h.writeError(c, err, msgUncheckedFailed)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetByDeviceTypeAndDate godoc
// @Summary      날짜별 Record 조회
// @Description  지정한 날짜(YYYY-MM-DD)에 생성된 호출자의 Record 를 반환합니다. deviceType 생략 시 전체 기기.
// @Tags         Records
// @Produce      json
// @Param        X-User-Idx header string true  "게이트웨이가 전달한 사용자 식별자"
// @Param        date       query  string true  "조회 날짜 (예: 2024-02-10)"
// @Param        deviceType query  string false "기기 종류"
// @Success      200 {array}  models.Record
// @Failure      400 {object} handler.ErrorResponse
// @Failure      401 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /records/device-type/date [get]
func (h *RecordHandler) GetByDeviceTypeAndDate(c *gin.Context) {
	records, err := h.svc.ListByDeviceTypeAndDate(
		c.Request.Context(),
		middleware.UserIdx(c),
		c.Query("deviceType"),
		c.Query("date"),
	)
	if err != nil {
		h.writeError(c, err, msgDateFailed)
		return
	}
	c.JSON(http.StatusOK, records)
}

// UpdateChecked godoc
// @Summary      Record 확인 처리
// @Description  호출자가 소유한 Record 의 checked 를 true 로 변경합니다. 이미 확인된 Record 도 200 을 반환합니다.
// @Tags         Records
// @Produce      json
// @Param        X-User-Idx header string true "게이트웨이가 전달한 사용자 식별자"
// @Param        recordIdx  path   string true "Record 식별자"
// @Success      200 {object} models.Record
// @Failure      401 {object} handler.ErrorResponse
// @Failure      403 {object} handler.ErrorResponse
// @Failure      404 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /records/{recordIdx}/checked [post]
func (h *RecordHandler) UpdateChecked(c *gin.Context) {
	rec, err := h.svc.AcknowledgeRecord(c.Request.Context(), middleware.UserIdx(c), c.Param("recordIdx"))
	if err != nil {
		h.writeError(c, err, msgCheckedFailed)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// 에러 종류 -> HTTP 상태 코드. 500 은 고정 메시지만 내려보냄
func (h *RecordHandler) writeError(c *gin.Context, err error, internalMsg string) {
	var recErr *record.Error
	if !errors.As(err, &recErr) {
		h.logger.Error("unclassified error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
		return
	}

	switch recErr.Kind {
	case record.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgUnauthorized})
	case record.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": msgForbidden})
	case record.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
	case record.KindBadRequest:
		c.JSON(http.StatusBadRequest, gin.H{"error": badRequestMessage(recErr.Op)})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}

func badRequestMessage(op string) string {
	switch op {
	case record.OpListByDeviceTypeAndDate:
		return "invalid date, expected YYYY-MM-DD"
	case record.OpSubmitRecording:
		return "file must not be empty"
	default:
		return "invalid request"
	}
}
