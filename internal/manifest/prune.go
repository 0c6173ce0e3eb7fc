package manifest

// Prune removes nil values, empty strings, empty lists and maps that are
// empty after pruning, at every level of a JSON-like document. The input
// is not modified. A value that prunes to nothing returns (nil, false).
func Prune(v interface{}) (interface{}, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		return t, t != ""
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			if pruned, ok := Prune(item); ok {
				out[k] = pruned
			}
		}
		return out, len(out) > 0
	case []interface{}:
		out := make([]interface{}, 0, len(t))
		for _, item := range t {
			if pruned, ok := Prune(item); ok {
				out = append(out, pruned)
			}
		}
		return out, len(out) > 0
	default:
		return v, true
	}
}

// PruneObject prunes a top-level object, returning an empty map rather
// than nil when nothing survives
func PruneObject(obj map[string]interface{}) map[string]interface{} {
	pruned, ok := Prune(obj)
	if !ok {
		return map[string]interface{}{}
	}
	return pruned.(map[string]interface{})
}
