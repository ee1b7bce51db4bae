package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"record_service/internal/models"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrNotOwner        = errors.New("record belongs to another user")
	ErrDuplicateRecord = errors.New("record already exists")
)

// created_at 은 사전순 정렬이 시간순과 같도록 고정 폭으로 저장
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

const recordColumns = `record_idx, user_idx, device_type, file_name, created_date, created_at, checked`

// Create inserts a new unchecked Record owned by the resolved caller.
func (s *Store) Create(ctx context.Context, in models.NewRecord) (*models.Record, error) {
	userIdx := in.OwnerRef
	if s.resolver != nil {
		member, err := s.resolver.GetMemberByID(ctx, in.OwnerRef)
		if err != nil {
			return nil, fmt.Errorf("resolve owner: %w", err)
		}
		userIdx = member.Idx
	}
	if strings.TrimSpace(userIdx) == "" {
		return nil, errors.New("create record: empty owner")
	}

	now := s.now()
	record := &models.Record{
		RecordIdx:   uuid.NewString(),
		UserIdx:     userIdx,
		DeviceType:  in.DeviceType,
		FileName:    in.FileName,
		CreatedDate: now.Format(models.DateLayout),
		CreatedAt:   now.UTC(),
		Checked:     false,
	}

	stmt, err := s.db.PrepareContext(ctx, "INSERT INTO records("+recordColumns+") VALUES(?, ?, ?, ?, ?, ?, 0)")
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		record.RecordIdx,
		record.UserIdx,
		record.DeviceType,
		record.FileName,
		record.CreatedDate,
		record.CreatedAt.Format(timestampLayout),
	)
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) {
			switch sqliteErr.Code() {
			case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
				return nil, ErrDuplicateRecord
			}
		}
		return nil, err
	}

	s.logger.Debug("record created",
		zap.String("recordIdx", record.RecordIdx),
		zap.String("userIdx", record.UserIdx),
		zap.String("deviceType", record.DeviceType))
	return record, nil
}

// FindByRecordIdx returns ErrRecordNotFound when no row matches.
func (s *Store) FindByRecordIdx(ctx context.Context, recordIdx string) (*models.Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM records WHERE record_idx = ?", recordIdx)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

// FindUnchecked returns the user's unchecked records, newest first.
func (s *Store) FindUnchecked(ctx context.Context, userIdx string) ([]models.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE user_idx = ? AND checked = 0
		ORDER BY created_at DESC, record_idx
	`
	return s.queryRecords(ctx, query, userIdx)
}

// FindByDeviceTypeAndDate returns the user's records created on date. An empty
// deviceType matches every device type.
func (s *Store) FindByDeviceTypeAndDate(ctx context.Context, userIdx, deviceType string, date time.Time) ([]models.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE user_idx = ? AND created_date = ? AND (? = '' OR device_type = ?)
		ORDER BY created_at DESC, record_idx
	`
	day := date.Format(models.DateLayout)
	return s.queryRecords(ctx, query, userIdx, day, deviceType, deviceType)
}

// AcknowledgeOwned sets checked in a single statement guarded by ownership,
// so no other request can slip in between the ownership check and the write.
// Repeating it on an already checked record succeeds.
func (s *Store) AcknowledgeOwned(ctx context.Context, recordIdx, userIdx string) (*models.Record, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE records SET checked = 1 WHERE record_idx = ? AND user_idx = ?",
		recordIdx, userIdx)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	record, err := s.FindByRecordIdx(ctx, recordIdx)
	if err != nil {
		return nil, err
	}
	// record_idx/user_idx 는 변경 불가이므로 재조회 결과로 원인 판별 가능
	if n == 0 || record.UserIdx != userIdx {
		return nil, ErrNotOwner
	}
	return record, nil
}

// ListAll returns every record, or only userIdx's when it is not empty.
func (s *Store) ListAll(ctx context.Context, userIdx string) ([]models.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE (? = '' OR user_idx = ?)
		ORDER BY created_at DESC, record_idx
	`
	return s.queryRecords(ctx, query, userIdx, userIdx)
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.Record, error) {
	var (
		r         models.Record
		fileName  sql.NullString
		createdAt string
		checked   int
	)
	if err := row.Scan(&r.RecordIdx, &r.UserIdx, &r.DeviceType, &fileName, &r.CreatedDate, &createdAt, &checked); err != nil {
		return nil, err
	}
	if fileName.Valid {
		r.FileName = fileName.String
	}
	parsed, err := time.Parse(timestampLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	r.CreatedAt = parsed
	r.Checked = checked != 0
	return &r, nil
}
