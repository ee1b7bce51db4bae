// Package record implements the record operations behind the HTTP surface:
// caller resolution through the user directory, ownership checks, store
// calls and forwarding of uploads to the AI prediction server.
//
// The caller id handed to every operation comes from the X-User-Idx header
// and is trusted as already authenticated by the upstream gateway.
package record

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"record_service/internal/logging"
	"record_service/internal/models"
	"record_service/internal/predict"
	"record_service/internal/storage"
	"record_service/internal/userclient"
)

// Directory resolves the gateway caller id to the internal member.
type Directory interface {
	GetMemberByID(ctx context.Context, idx string) (*models.Member, error)
}

// Store is the persistence the operations need.
type Store interface {
	Create(ctx context.Context, in models.NewRecord) (*models.Record, error)
	FindUnchecked(ctx context.Context, userIdx string) ([]models.Record, error)
	FindByDeviceTypeAndDate(ctx context.Context, userIdx, deviceType string, date time.Time) ([]models.Record, error)
	AcknowledgeOwned(ctx context.Context, recordIdx, userIdx string) (*models.Record, error)
}

// Forwarder sends a staged upload to the AI prediction server.
type Forwarder interface {
	Forward(ctx context.Context, filePath, fileName, recordIdx string) (*predict.Prediction, error)
}

// Stager keeps an upload on disk for the duration of a forward call.
type Stager interface {
	Stage(src io.Reader, fileName string) (string, error)
	Release(path string)
}

// Upload is an incoming audio file. Size is -1 when unknown.
type Upload struct {
	Body       io.Reader
	FileName   string
	DeviceType string
	Size       int64
}

// Operation names carried in Error.Op.
const (
	OpSubmitRecording         = "SubmitRecording"
	OpListUnacknowledged      = "ListUnacknowledged"
	OpListByDeviceTypeAndDate = "ListByDeviceTypeAndDate"
	OpAcknowledgeRecord       = "AcknowledgeRecord"
)

type Options struct {
	DefaultDeviceType string
	Logger            *zap.Logger
}

type Service struct {
	directory         Directory
	store             Store
	forwarder         Forwarder
	stager            Stager
	defaultDeviceType string
	logger            *zap.Logger
}

func NewService(directory Directory, store Store, forwarder Forwarder, stager Stager, opts Options) *Service {
	return &Service{
		directory:         directory,
		store:             store,
		forwarder:         forwarder,
		stager:            stager,
		defaultDeviceType: NormalizeDeviceType(opts.DefaultDeviceType),
		logger:            logging.OrNop(opts.Logger),
	}
}

// SubmitRecording creates a record for the caller, stages the upload and
// forwards it to the AI server. The prediction is returned as received. The
// created record is kept when forwarding fails.
func (s *Service) SubmitRecording(ctx context.Context, callerIdx string, upload Upload) (*predict.Prediction, error) {
	const op = OpSubmitRecording
	if upload.Body == nil || upload.Size == 0 {
		return nil, s.fail(op, callerIdx, newError(KindBadRequest, op, errors.New("empty audio file")))
	}

	deviceType := NormalizeDeviceType(upload.DeviceType)
	if deviceType == "" {
		deviceType = s.defaultDeviceType
	}

	rec, err := s.store.Create(ctx, models.NewRecord{
		OwnerRef:   callerIdx,
		DeviceType: deviceType,
		FileName:   upload.FileName,
	})
	if err != nil {
		return nil, s.fail(op, callerIdx, newError(KindInternal, op, fmt.Errorf("create record: %w", err)))
	}

	path, err := s.stager.Stage(upload.Body, upload.FileName)
	if err != nil {
		s.logger.Warn("record created but upload was not forwarded", zap.String("recordIdx", rec.RecordIdx))
		return nil, s.fail(op, callerIdx, newError(KindInternal, op, fmt.Errorf("stage upload: %w", err)))
	}
	defer s.stager.Release(path)

	pred, err := s.forwarder.Forward(ctx, path, upload.FileName, rec.RecordIdx)
	if err != nil {
		s.logger.Warn("record created but upload was not forwarded", zap.String("recordIdx", rec.RecordIdx))
		return nil, s.fail(op, callerIdx, newError(KindInternal, op, fmt.Errorf("forward upload: %w", err)))
	}

	s.logger.Info("recording submitted",
		zap.String("callerIdx", callerIdx),
		zap.String("recordIdx", rec.RecordIdx),
		zap.Int("predictStatus", pred.StatusCode))
	return pred, nil
}

// ListUnacknowledged returns the caller's unchecked records in store order.
func (s *Service) ListUnacknowledged(ctx context.Context, callerIdx string) ([]models.Record, error) {
	const op = OpListUnacknowledged
	userIdx, err := s.resolve(ctx, op, callerIdx)
	if err != nil {
		return nil, err
	}

	records, err := s.store.FindUnchecked(ctx, userIdx)
	if err != nil {
		return nil, s.fail(op, callerIdx, newError(KindInternal, op, err))
	}
	return records, nil
}

// ListByDeviceTypeAndDate returns the caller's records of deviceType created
// on dateString (YYYY-MM-DD). An empty deviceType matches all device types.
func (s *Service) ListByDeviceTypeAndDate(ctx context.Context, callerIdx, deviceType, dateString string) ([]models.Record, error) {
	const op = OpListByDeviceTypeAndDate
	userIdx, err := s.resolve(ctx, op, callerIdx)
	if err != nil {
		return nil, err
	}

	date, err := ParseDate(dateString)
	if err != nil {
		return nil, s.fail(op, callerIdx, newError(KindBadRequest, op, err))
	}

	records, err := s.store.FindByDeviceTypeAndDate(ctx, userIdx, NormalizeDeviceType(deviceType), date)
	if err != nil {
		return nil, s.fail(op, callerIdx, newError(KindInternal, op, err))
	}
	return records, nil
}

// AcknowledgeRecord marks recordIdx as checked when the caller owns it.
// Acknowledging an already checked record succeeds.
func (s *Service) AcknowledgeRecord(ctx context.Context, callerIdx, recordIdx string) (*models.Record, error) {
	const op = OpAcknowledgeRecord
	userIdx, err := s.resolve(ctx, op, callerIdx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(recordIdx) == "" {
		return nil, s.fail(op, callerIdx, newError(KindNotFound, op, storage.ErrRecordNotFound))
	}

	rec, err := s.store.AcknowledgeOwned(ctx, recordIdx, userIdx)
	switch {
	case err == nil:
		s.logger.Info("record acknowledged", zap.String("recordIdx", recordIdx), zap.String("userIdx", userIdx))
		return rec, nil
	case errors.Is(err, storage.ErrRecordNotFound):
		return nil, s.fail(op, callerIdx, newError(KindNotFound, op, err))
	case errors.Is(err, storage.ErrNotOwner):
		return nil, s.fail(op, callerIdx, newError(KindForbidden, op, err))
	default:
		return nil, s.fail(op, callerIdx, newError(KindInternal, op, err))
	}
}

func (s *Service) resolve(ctx context.Context, op, callerIdx string) (string, error) {
	member, err := s.directory.GetMemberByID(ctx, callerIdx)
	if err != nil {
		if errors.Is(err, userclient.ErrUnauthorized) {
			return "", s.fail(op, callerIdx, newError(KindUnauthorized, op, err))
		}
		return "", s.fail(op, callerIdx, newError(KindInternal, op, fmt.Errorf("resolve caller: %w", err)))
	}
	return member.Idx, nil
}

// fail logs e server-side and returns it. Internal details never leave the
// process; the HTTP layer only sees the kind.
func (s *Service) fail(op, callerIdx string, e *Error) error {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("callerIdx", callerIdx),
		zap.Stringer("kind", e.Kind),
	}
	switch e.Kind {
	case KindInternal:
		s.logger.Error("record operation failed", append(fields, zap.Error(e.Err))...)
	case KindUnauthorized:
		s.logger.Info("no session for caller", fields...)
	default:
		s.logger.Info("record operation rejected", append(fields, zap.Error(e.Err))...)
	}
	return e
}

// ParseDate parses an ISO 8601 calendar date, rejecting impossible dates.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(models.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return date, nil
}

// NormalizeDeviceType lower-cases and trims a device type tag.
func NormalizeDeviceType(deviceType string) string {
	return strings.ToLower(strings.TrimSpace(deviceType))
}
