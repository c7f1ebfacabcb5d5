package connector_repository

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pageToken struct {
	createTime time.Time
	uid        string
}

func encodePageToken(createTime time.Time, uid string) string {
	raw := createTime.UTC().Format(time.RFC3339Nano) + "," + uid
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func decodePageToken(token string) (pageToken, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return pageToken{}, fmt.Errorf("%w: %s", InvalidPageTokenError, err)
	}

	createTimeString, uidString, found := strings.Cut(string(raw), ",")
	if !found {
		return pageToken{}, fmt.Errorf("%w: missing separator", InvalidPageTokenError)
	}

	createTime, err := time.Parse(time.RFC3339Nano, createTimeString)
	if err != nil {
		return pageToken{}, fmt.Errorf("%w: %s", InvalidPageTokenError, err)
	}

	uid, err := uuid.Parse(uidString)
	if err != nil {
		return pageToken{}, fmt.Errorf("%w: %s", InvalidPageTokenError, err)
	}

	return pageToken{createTime: createTime.UTC(), uid: uid.String()}, nil
}

// normalizePageSize applies the paging policy: 0 selects the default size and anything over
// the max is clamped to the max.
func normalizePageSize(requested int, defaultSize int, maxSize int) (int, error) {
	switch {
	case requested < 0:
		return 0, fmt.Errorf("%w: %d", InvalidPageSizeError, requested)
	case requested == 0:
		return defaultSize, nil
	case requested > maxSize:
		return maxSize, nil
	default:
		return requested, nil
	}
}

// paginate orders newest first and resumes strictly after the position held by the token
func paginate(query *gorm.DB, token string, pageSize int) (*gorm.DB, error) {
	query = query.Order("create_time DESC").Order("uid DESC")

	if token != "" {
		t, err := decodePageToken(token)
		if err != nil {
			return nil, err
		}
		query = query.Where("create_time < ? OR (create_time = ? AND uid < ?)", t.createTime, t.createTime, t.uid)
	}

	// one extra row tells us whether another page exists
	return query.Limit(pageSize + 1), nil
}

func nextPageToken(pageSize int, fetched int, lastCreateTime time.Time, lastUID string) string {
	if fetched <= pageSize {
		return ""
	}
	return encodePageToken(lastCreateTime, lastUID)
}

func nowForDatabase() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
