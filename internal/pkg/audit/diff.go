package audit

import (
	"encoding/json"
	"sort"
)

// ChangedFields computes the top-level field names whose serialized
// representations differ between the old and new payloads. This is a shallow
// diff: nested structures count as changed when any part of them differs, and
// no deep paths are reported. The result is sorted for stable persistence.
func ChangedFields(oldValue, newValue map[string]interface{}) []string {
	if oldValue == nil && newValue == nil {
		return nil
	}

	keys := make(map[string]struct{}, len(oldValue)+len(newValue))
	for k := range oldValue {
		keys[k] = struct{}{}
	}
	for k := range newValue {
		keys[k] = struct{}{}
	}

	var changed []string
	for k := range keys {
		if serialize(oldValue[k]) != serialize(newValue[k]) {
			changed = append(changed, k)
		}
	}

	sort.Strings(changed)
	return changed
}

// serialize renders a value to its JSON form for comparison. Unserializable
// values compare by their error text, which still yields a stable result.
func serialize(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "!" + err.Error()
	}
	return string(b)
}
