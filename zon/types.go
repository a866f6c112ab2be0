package zon

// Kind identifies the type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value represents a ZON value: a tagged union over the JSON-like model.
// Object fields keep insertion order so encoding is deterministic.
type Value struct {
	kind Kind

	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string

	arrVal []*Value
	objVal []Field
}

// Field is a key/value pair inside an object.
type Field struct {
	Key   string
	Value *Value
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(v bool) *Value {
	return &Value{kind: KindBool, boolVal: v}
}

// Int creates an integer value.
func Int(v int64) *Value {
	return &Value{kind: KindInt, intVal: v}
}

// Float creates a float value.
func Float(v float64) *Value {
	return &Value{kind: KindFloat, floatVal: v}
}

// Str creates a string value.
func Str(v string) *Value {
	return &Value{kind: KindString, strVal: v}
}

// Array creates an array value.
func Array(items ...*Value) *Value {
	return &Value{kind: KindArray, arrVal: items}
}

// Object creates an object value with fields in the given order.
func Object(fields ...Field) *Value {
	return &Value{kind: KindObject, objVal: fields}
}

// F is shorthand for building a Field.
func F(key string, value *Value) Field {
	return Field{Key: key, Value: value}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value's kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether the value is null.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// BoolVal returns the boolean payload (false if not a bool).
func (v *Value) BoolVal() bool {
	return v != nil && v.kind == KindBool && v.boolVal
}

// IntVal returns the integer payload (0 if not an int).
func (v *Value) IntVal() int64 {
	if v == nil || v.kind != KindInt {
		return 0
	}
	return v.intVal
}

// FloatVal returns the float payload (0 if not a float).
func (v *Value) FloatVal() float64 {
	if v == nil || v.kind != KindFloat {
		return 0
	}
	return v.floatVal
}

// StrVal returns the string payload ("" if not a string).
func (v *Value) StrVal() string {
	if v == nil || v.kind != KindString {
		return ""
	}
	return v.strVal
}

// Items returns the array elements (nil if not an array).
func (v *Value) Items() []*Value {
	if v == nil || v.kind != KindArray {
		return nil
	}
	return v.arrVal
}

// Fields returns the object fields in order (nil if not an object).
func (v *Value) Fields() []Field {
	if v == nil || v.kind != KindObject {
		return nil
	}
	return v.objVal
}

// Get looks up an object field by key.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.kind != KindObject {
		return nil, false
	}
	for _, f := range v.objVal {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Len returns the element count for arrays, field count for objects,
// and 0 otherwise.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case KindArray:
		return len(v.arrVal)
	case KindObject:
		return len(v.objVal)
	default:
		return 0
	}
}

// Set upserts an object field, preserving insertion order on update.
// No-op on non-objects.
func (v *Value) Set(key string, val *Value) {
	if v == nil || v.kind != KindObject {
		return
	}
	for i, f := range v.objVal {
		if f.Key == key {
			v.objVal[i].Value = val
			return
		}
	}
	v.objVal = append(v.objVal, Field{Key: key, Value: val})
}

// ============================================================
// Equality
// ============================================================

// Equal reports deep equality. Object key order is ignored: decode does not
// treat source order as significant.
func (v *Value) Equal(o *Value) bool {
	if v.IsNull() || o.IsNull() {
		return v.IsNull() && o.IsNull()
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.boolVal == o.boolVal
	case KindInt:
		return v.intVal == o.intVal
	case KindFloat:
		return v.floatVal == o.floatVal
	case KindString:
		return v.strVal == o.strVal
	case KindArray:
		if len(v.arrVal) != len(o.arrVal) {
			return false
		}
		for i := range v.arrVal {
			if !v.arrVal[i].Equal(o.arrVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.objVal) != len(o.objVal) {
			return false
		}
		for _, f := range v.objVal {
			ov, ok := o.Get(f.Key)
			if !ok || !f.Value.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}
