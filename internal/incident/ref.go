package incident

import (
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocRef points at another document. It is stored as a DBRef-style
// sub-document {"$ref": collection, "$id": id} or as a BSON DBPointer.
type DocRef struct {
	Collection string `json:"collection"`
	ID         any    `json:"id"`
}

// Key is the identifier portion of the reference as a string
func (r DocRef) Key() string {
	return idString(r.ID)
}

type RefKind int

const (
	RefNone RefKind = iota
	RefInline
	RefPointer
)

// RefValue is a field that holds either an inline string or a pointer to
// another document, given as a DBRef, a DBPointer or a bare ObjectID.
// Anything else decodes to RefNone.
type RefValue struct {
	Kind   RefKind
	Inline string
	Ref    DocRef
}

func Inline(s string) RefValue {
	return RefValue{Kind: RefInline, Inline: s}
}

func Pointer(collection string, id any) RefValue {
	return RefValue{Kind: RefPointer, Ref: DocRef{Collection: collection, ID: id}}
}

func (v RefValue) IsZero() bool {
	return v.Kind == RefNone
}

// UnmarshalBSONValue never fails: unexpected shapes become RefNone
func (v *RefValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*v = RefValue{}
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.String:
		v.Kind = RefInline
		v.Inline = raw.StringValue()
	case bsontype.EmbeddedDocument:
		doc, ok := raw.DocumentOK()
		if !ok {
			return nil
		}
		coll, ok := doc.Lookup("$ref").StringValueOK()
		if !ok {
			return nil
		}
		var id any
		if err := doc.Lookup("$id").Unmarshal(&id); err != nil || id == nil {
			return nil
		}
		v.Kind = RefPointer
		v.Ref = DocRef{Collection: coll, ID: id}
	case bsontype.ObjectID:
		oid, ok := raw.ObjectIDOK()
		if !ok {
			return nil
		}
		// A bare id names no collection
		v.Kind = RefPointer
		v.Ref = DocRef{ID: oid}
	case bsontype.DBPointer:
		ns, oid, ok := raw.DBPointerOK()
		if !ok {
			return nil
		}
		v.Kind = RefPointer
		v.Ref = DocRef{Collection: ns, ID: oid}
	}
	return nil
}

func (v RefValue) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch v.Kind {
	case RefInline:
		return bson.MarshalValue(v.Inline)
	case RefPointer:
		return bson.MarshalValue(bson.D{
			{Key: "$ref", Value: v.Ref.Collection},
			{Key: "$id", Value: v.Ref.ID},
		})
	default:
		return bson.MarshalValue(nil)
	}
}

// DocID accepts ObjectID, string and integer _id values
type DocID string

func (d *DocID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var id any
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&id); err != nil {
		*d = ""
		return nil
	}
	*d = DocID(idString(id))
	return nil
}

func idString(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// IDFilterValues returns the candidate _id values for a string id, since
// documents may be keyed by ObjectID or by plain string.
func IDFilterValues(id string) []any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return []any{oid, id}
	}
	return []any{id}
}
