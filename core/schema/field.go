package schema

// Field is a single message field.
type Field struct {
	// Name is the field name as declared (used verbatim as the JSON property name).
	Name string

	// Number is the field tag.
	Number int

	// Type is the resolved field type.
	Type FieldType

	// Cardinality is singular or repeated.
	Cardinality Cardinality

	// Optional is the explicit proto3 "optional" marker.
	Optional bool
}

// IsRepeated returns whether the field is a list.
func (f *Field) IsRepeated() bool {
	return f.Cardinality == Repeated
}

// IsRequired returns whether the field must be present.
// Lists are never required: absence means empty, not null.
func (f *Field) IsRequired() bool {
	return !f.Optional && !f.IsRepeated()
}

// Cardinality is the multiplicity of a field.
type Cardinality int

const (
	// Singular holds at most one value.
	Singular Cardinality = iota

	// Repeated holds a list of values.
	Repeated
)

// PrimitiveKind is a scalar IDL type.
type PrimitiveKind string

const (
	KindString   PrimitiveKind = "string"
	KindBool     PrimitiveKind = "bool"
	KindDouble   PrimitiveKind = "double"
	KindFloat    PrimitiveKind = "float"
	KindInt32    PrimitiveKind = "int32"
	KindInt64    PrimitiveKind = "int64"
	KindUint32   PrimitiveKind = "uint32"
	KindUint64   PrimitiveKind = "uint64"
	KindSint32   PrimitiveKind = "sint32"
	KindSint64   PrimitiveKind = "sint64"
	KindFixed32  PrimitiveKind = "fixed32"
	KindFixed64  PrimitiveKind = "fixed64"
	KindSfixed32 PrimitiveKind = "sfixed32"
	KindSfixed64 PrimitiveKind = "sfixed64"
	KindBytes    PrimitiveKind = "bytes"
)

// PrimitiveKinds lists every primitive kind.
var PrimitiveKinds = []PrimitiveKind{
	KindString, KindBool, KindDouble, KindFloat,
	KindInt32, KindInt64, KindUint32, KindUint64,
	KindSint32, KindSint64, KindFixed32, KindFixed64,
	KindSfixed32, KindSfixed64, KindBytes,
}

// IsPrimitiveKind reports whether s names a primitive kind.
func IsPrimitiveKind(s string) bool {
	for _, k := range PrimitiveKinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

// Is64Bit reports whether the kind is a 64-bit integer.
func (k PrimitiveKind) Is64Bit() bool {
	switch k {
	case KindInt64, KindUint64, KindSint64, KindFixed64, KindSfixed64:
		return true
	default:
		return false
	}
}

// TypeTag discriminates FieldType.
type TypeTag int

const (
	// TagPrimitive marks a Primitive(kind) type.
	TagPrimitive TypeTag = iota + 1

	// TagReference marks a Reference(typeName) type.
	TagReference
)

// FieldType is the tagged union Primitive(kind) | Reference(typeName).
type FieldType struct {
	Tag  TypeTag
	Kind PrimitiveKind
	Ref  string
}

// Primitive returns a primitive field type.
func Primitive(kind PrimitiveKind) FieldType {
	return FieldType{Tag: TagPrimitive, Kind: kind}
}

// Reference returns a message or enum reference.
func Reference(typeName string) FieldType {
	return FieldType{Tag: TagReference, Ref: typeName}
}

// IsPrimitive reports whether t is a primitive kind.
func (t FieldType) IsPrimitive() bool {
	return t.Tag == TagPrimitive
}

// SimpleName returns the unqualified referenced type name ("" for primitives).
func (t FieldType) SimpleName() string {
	if t.Tag != TagReference {
		return ""
	}
	return SimpleName(t.Ref)
}

// String returns the IDL spelling of the type.
func (t FieldType) String() string {
	if t.Tag == TagPrimitive {
		return string(t.Kind)
	}
	return t.Ref
}
