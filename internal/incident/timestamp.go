package incident

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Timestamp is a tolerant creation/update time. Valid is false when the
// stored value is missing or cannot be read as a point in time.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

func At(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: true}
}

func (ts Timestamp) IsZero() bool {
	return !ts.Valid
}

func (ts *Timestamp) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*ts = Timestamp{}
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.DateTime:
		if ms, ok := raw.DateTimeOK(); ok {
			*ts = At(time.UnixMilli(ms))
		}
	case bsontype.Timestamp:
		if sec, _, ok := raw.TimestampOK(); ok {
			*ts = At(time.Unix(int64(sec), 0))
		}
	case bsontype.String:
		s, _ := raw.StringValueOK()
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
			if parsed, err := time.Parse(layout, s); err == nil {
				*ts = At(parsed)
				break
			}
		}
	}
	return nil
}

func (ts Timestamp) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !ts.Valid {
		return bson.MarshalValue(nil)
	}
	return bson.MarshalValue(ts.Time)
}
