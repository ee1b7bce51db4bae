package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"record_service/internal/middleware"
	"record_service/internal/models"
)

const writeWait = 10 * time.Second

// UncheckedFrame is one push on the unchecked stream.
type UncheckedFrame struct {
	Records []models.Record `json:"records"`
	SentAt  time.Time       `json:"sentAt"`
}

// StreamUnchecked godoc
// @Summary      미확인 Record 스트림 (WebSocket)
// @Description  연결 직후와 이후 주기마다 미확인 Record 목록을 전송합니다.
// @Description  <br>
// @Description  **참고: 이것은 표준 HTTP API가 아닙니다.** `ws://` 또는 `wss://` 스킴으로 연결해야 합니다.
// @Tags         WebSocket (Records)
// @Param        X-User-Idx header string true "게이트웨이가 전달한 사용자 식별자"
// @Success      101 {object} handler.UncheckedFrame "101 Switching Protocols"
// @Failure      401 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /records/unchecked/stream [get]
func (h *RecordHandler) StreamUnchecked(c *gin.Context) {
	callerIdx := middleware.UserIdx(c)

	// 업그레이드 전에 한 번 조회해서 세션/에러를 HTTP 로 돌려줌
	records, err := h.svc.ListUnacknowledged(c.Request.Context(), callerIdx)
	if err != nil {
		h.writeError(c, err, msgUncheckedFailed)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("callerIdx", callerIdx), zap.Error(err))
		return
	}
	defer conn.Close()
	h.logger.Info("unchecked stream opened", zap.String("callerIdx", callerIdx))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 클라이언트 메시지는 무시, 연결 종료만 감지
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.pushFrame(conn, records); err != nil {
		return
	}

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("unchecked stream closed", zap.String("callerIdx", callerIdx))
			return
		case <-ticker.C:
			records, err := h.svc.ListUnacknowledged(ctx, callerIdx)
			if err != nil {
				msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, msgUncheckedFailed)
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
				return
			}
			if err := h.pushFrame(conn, records); err != nil {
				return
			}
		}
	}
}

func (h *RecordHandler) pushFrame(conn *websocket.Conn, records []models.Record) error {
	if records == nil {
		records = []models.Record{}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(UncheckedFrame{Records: records, SentAt: time.Now().UTC()}); err != nil {
		h.logger.Debug("unchecked stream write failed", zap.Error(err))
		return err
	}
	return nil
}
