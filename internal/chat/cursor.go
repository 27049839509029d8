package chat

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/models"
)

// Cursor is an opaque position in a group's message log, derived from
// the last message a caller observed. Re-requesting from an earlier
// cursor always yields the same ordered result for unmutated history.
type Cursor struct {
	Time time.Time
	Seq  int64
}

func CursorFor(m models.GroupMessage) Cursor {
	return Cursor{Time: m.SequenceTime, Seq: m.Seq}
}

func (c Cursor) Encode() string {
	raw := fmt.Sprintf("%d:%d", c.Time.UnixNano(), c.Seq)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", ErrValidation)
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", ErrValidation)
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", ErrValidation)
	}
	seq, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed cursor", ErrValidation)
	}
	return Cursor{Time: time.Unix(0, nanos), Seq: seq}, nil
}
