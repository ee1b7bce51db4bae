/**
* Name: 			client.go
* Description: 		사용자 서비스(user directory) HTTP 클라이언트
* Workflow: 		외부 식별자(X-User-Idx) -> GET /users/{idx} -> 내부 userIdx
 */

package userclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"record_service/internal/auth"
	"record_service/internal/logging"
	"record_service/internal/models"
)

// ErrUnauthorized is returned when the directory has no session for the caller.
var ErrUnauthorized = errors.New("userclient: no session for caller")

type Client struct {
	baseURL    string
	httpClient *http.Client
	signer     *auth.Signer
	logger     *zap.Logger
}

// New builds a client for baseURL. signer may be nil, in which case requests
// are sent without a service token.
func New(baseURL string, timeout time.Duration, signer *auth.Signer, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		signer:     signer,
		logger:     logging.OrNop(logger),
	}
}

// GetMemberByID resolves the gateway-supplied idx to the directory member.
func (c *Client) GetMemberByID(ctx context.Context, idx string) (*models.Member, error) {
	if strings.TrimSpace(idx) == "" {
		return nil, ErrUnauthorized
	}

	endpoint := c.baseURL + "/users/" + url.PathEscape(idx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.signer != nil {
		token, err := c.signer.GenerateToken(idx)
		if err != nil {
			return nil, fmt.Errorf("sign service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call user service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		c.logger.Info("user service has no session", zap.String("idx", idx))
		return nil, ErrUnauthorized
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("user service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var member models.Member
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		return nil, fmt.Errorf("decode member: %w", err)
	}
	if member.Idx == "" {
		return nil, errors.New("user service returned member without idx")
	}
	return &member, nil
}
