package datagrid

import (
	"reflect"
	"slices"
	"strings"
)

// Diff returns the keys of draft whose value differs from base, skipping the
// excluded keys. Strings compare after trimming and a missing value equals
// the empty string; other values compare with reflect.DeepEqual. The draft
// value is what gets sent.
func Diff(base, draft Form, exclude ...string) Form {
	changes := Form{}
	for key, value := range draft {
		if slices.Contains(exclude, key) {
			continue
		}
		if !sameValue(base[key], value) {
			changes[key] = value
		}
	}
	return changes
}

// Strip returns a copy of form without the given keys.
func Strip(form Form, keys ...string) Form {
	out := form.Clone()
	for _, key := range keys {
		delete(out, key)
	}
	return out
}

func sameValue(left, right any) bool {
	ls, lok := asString(left)
	rs, rok := asString(right)
	if lok && rok {
		return strings.TrimSpace(ls) == strings.TrimSpace(rs)
	}
	return reflect.DeepEqual(left, right)
}

func asString(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "", true
	case string:
		return typed, true
	}
	return "", false
}
