package incident

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Stored documents are written by several clients, so every field is read
// on its own. A wrong-typed value loses only that field.

func decodeReport(doc bson.Raw) RawReport {
	return RawReport{
		ID:               idField(doc, "_id"),
		Type:             StringField(doc, "type"),
		Status:           StringField(doc, "status"),
		Reporter:         refField(doc, "reporter"),
		CreatedAt:        timeField(doc, "created_at"),
		UpdatedAt:        timeField(doc, "updated_at"),
		Description:      refField(doc, "description"),
		PlateNumber:      StringField(doc, "plate_number"),
		Location:         locationField(doc, "location"),
		LocationLabel:    StringField(doc, "location_label"),
		SupportingImages: stringsField(doc, "supporting_images"),
		Image:            StringField(doc, "image"),
	}
}

func decodeFeedback(doc bson.Raw) RawFeedback {
	rating, _ := numberField(doc, "rating")
	return RawFeedback{
		ID:        idField(doc, "_id"),
		Type:      StringField(doc, "type"),
		Rating:    rating,
		Subject:   StringField(doc, "subject"),
		Message:   StringField(doc, "message"),
		UserEmail: StringField(doc, "userEmail"),
		UserRef:   refField(doc, "userRef"),
		UserID:    StringField(doc, "userId"),
		CreatedAt: timeField(doc, "createdAt"),
	}
}

// StringField reads a scalar field as text; numbers are formatted, anything else is empty
func StringField(doc bson.Raw, key string) string {
	v, err := doc.LookupErr(key)
	if err != nil {
		return ""
	}
	return scalarString(v)
}

func scalarString(v bson.RawValue) string {
	switch v.Type {
	case bsontype.String:
		return v.StringValue()
	case bsontype.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case bsontype.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case bsontype.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	default:
		return ""
	}
}

// numberField accepts numeric values and numeric strings
func numberField(doc bson.Raw, key string) (float64, bool) {
	v, err := doc.LookupErr(key)
	if err != nil {
		return 0, false
	}
	switch v.Type {
	case bsontype.Double:
		return v.Double(), true
	case bsontype.Int32:
		return float64(v.Int32()), true
	case bsontype.Int64:
		return float64(v.Int64()), true
	case bsontype.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.StringValue()), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func idField(doc bson.Raw, key string) DocID {
	var id DocID
	if v, err := doc.LookupErr(key); err == nil {
		_ = id.UnmarshalBSONValue(v.Type, v.Value)
	}
	return id
}

func refField(doc bson.Raw, key string) RefValue {
	var ref RefValue
	if v, err := doc.LookupErr(key); err == nil {
		_ = ref.UnmarshalBSONValue(v.Type, v.Value)
	}
	return ref
}

func timeField(doc bson.Raw, key string) Timestamp {
	var ts Timestamp
	if v, err := doc.LookupErr(key); err == nil {
		_ = ts.UnmarshalBSONValue(v.Type, v.Value)
	}
	return ts
}

// locationField needs numeric coordinates under lat/lon or latitude/longitude
func locationField(doc bson.Raw, key string) *Location {
	v, err := doc.LookupErr(key)
	if err != nil {
		return nil
	}
	sub, ok := v.DocumentOK()
	if !ok {
		return nil
	}
	lat, okLat := coordinate(sub, "lat", "latitude")
	lon, okLon := coordinate(sub, "lon", "longitude")
	if !okLat || !okLon {
		return nil
	}
	return &Location{Lat: lat, Lon: lon}
}

func coordinate(doc bson.Raw, keys ...string) (float64, bool) {
	for _, key := range keys {
		v, err := doc.LookupErr(key)
		if err != nil {
			continue
		}
		switch v.Type {
		case bsontype.Double:
			return v.Double(), true
		case bsontype.Int32:
			return float64(v.Int32()), true
		case bsontype.Int64:
			return float64(v.Int64()), true
		}
		return 0, false
	}
	return 0, false
}

// stringsField keeps the string entries of an array
func stringsField(doc bson.Raw, key string) []string {
	v, err := doc.LookupErr(key)
	if err != nil {
		return nil
	}
	arr, ok := v.ArrayOK()
	if !ok {
		return nil
	}
	values, err := arr.Values()
	if err != nil {
		return nil
	}
	var out []string
	for _, item := range values {
		if s, ok := item.StringValueOK(); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
