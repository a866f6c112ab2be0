package zon

import (
	"strconv"
	"strings"
)

// ============================================================
// Flattening / Un-flattening
// ============================================================
//
// Nested objects convert to dot-path keys up to a bounded depth, and back.
// The production encoder uses depth 0: nested objects stay whole and render
// as inline nodes. The decoder still rebuilds dotted paths emitted by older
// encoders, turning numeric segments into array indices.

// flattenDepth is the encoder's flattening bound.
const flattenDepth = 0

// flattenObject converts an object to dot-path fields, descending into
// nested objects only while depth < maxDepth. Arrays are never flattened.
func flattenObject(v *Value, parent string, maxDepth, depth int) []Field {
	if v.Kind() != KindObject {
		if parent != "" {
			return []Field{{Key: parent, Value: v}}
		}
		return nil
	}
	out := make([]Field, 0, v.Len())
	for _, f := range v.Fields() {
		key := f.Key
		if parent != "" {
			key = parent + "." + f.Key
		}
		if f.Value.Kind() == KindObject && depth < maxDepth {
			out = append(out, flattenObject(f.Value, key, maxDepth, depth+1)...)
		} else {
			out = append(out, Field{Key: key, Value: f.Value})
		}
	}
	return out
}

// unsafeSegment guards against prototype-pollution style keys arriving over
// the wire. Matching entries are dropped whole.
func unsafeSegment(s string) bool {
	switch s {
	case "__proto__", "constructor", "prototype":
		return true
	}
	return false
}

// unflattenFields rebuilds nested structure from dot-path keys. Numeric
// path segments become array indices, capped by the array-length ceiling.
func unflattenFields(fields []Field, limits Limits) *Value {
	result := Object()
	for _, f := range fields {
		if !strings.Contains(f.Key, ".") {
			if !unsafeSegment(f.Key) {
				result.Set(f.Key, f.Value)
			}
			continue
		}
		parts := strings.Split(f.Key, ".")
		if anyUnsafeSegment(parts) {
			continue
		}
		setPath(result, parts, f.Value, limits)
	}
	return result
}

func anyUnsafeSegment(parts []string) bool {
	for _, p := range parts {
		if unsafeSegment(p) {
			return true
		}
	}
	return false
}

// setPath writes val at the dotted path, creating objects and arrays along
// the way. An existing scalar in the way is replaced (last write wins).
func setPath(root *Value, parts []string, val *Value, limits Limits) {
	cur := root
	i := 0
	for i < len(parts)-1 {
		part := parts[i]
		next := parts[i+1]
		if isDigits(next) {
			idx, err := strconv.Atoi(next)
			if err != nil || idx >= limits.MaxArrayLength {
				return
			}
			arr := ensureArrayField(cur, part)
			if i+1 == len(parts)-1 {
				setArrayIndex(arr, idx, val)
				return
			}
			cur = ensureArrayElem(arr, idx)
			i += 2
		} else {
			cur = ensureObjectField(cur, part)
			i++
		}
	}
	cur.Set(parts[len(parts)-1], val)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ensureObjectField returns the object stored at key, creating or replacing
// as needed.
func ensureObjectField(obj *Value, key string) *Value {
	if v, ok := obj.Get(key); ok && v.Kind() == KindObject {
		return v
	}
	child := Object()
	obj.Set(key, child)
	return child
}

// ensureArrayField returns the array stored at key, creating or replacing
// as needed.
func ensureArrayField(obj *Value, key string) *Value {
	if v, ok := obj.Get(key); ok && v.Kind() == KindArray {
		return v
	}
	child := Array()
	obj.Set(key, child)
	return child
}

// ensureArrayElem extends the array with empty objects up to idx and
// returns the element there, replacing a non-object element.
func ensureArrayElem(arr *Value, idx int) *Value {
	for len(arr.arrVal) <= idx {
		arr.arrVal = append(arr.arrVal, Object())
	}
	if arr.arrVal[idx].Kind() != KindObject {
		arr.arrVal[idx] = Object()
	}
	return arr.arrVal[idx]
}

// setArrayIndex extends the array with empty objects up to idx and sets the
// element there.
func setArrayIndex(arr *Value, idx int, val *Value) {
	for len(arr.arrVal) <= idx {
		arr.arrVal = append(arr.arrVal, Object())
	}
	arr.arrVal[idx] = val
}
