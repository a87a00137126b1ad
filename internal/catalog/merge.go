package catalog

// MergeInto folds one page payload into an accumulator, concatenating the
// item lists under each of the given collection keys. Accumulator items stay
// first so a left-to-right fold over pages preserves arrival order.
//
// When one side lacks a key (or holds an empty value) the other side's value
// is taken as-is. Merging is only defined over the two collection shapes the
// API produces — a bare list or an `{"items": [...]}` wrapper; mismatched or
// foreign shapes leave the accumulator untouched for that key.
func MergeInto(acc, page map[string]any, keys ...string) {
	if acc == nil || page == nil {
		return
	}
	for _, key := range keys {
		pageVal, ok := page[key]
		if !ok || emptyCollection(pageVal) {
			continue
		}
		accVal, ok := acc[key]
		if !ok || emptyCollection(accVal) {
			acc[key] = pageVal
			continue
		}

		switch a := accVal.(type) {
		case map[string]any:
			p, ok := pageVal.(map[string]any)
			if !ok {
				continue
			}
			aItems, _ := a["items"].([]any)
			pItems, _ := p["items"].([]any)
			merged := make([]any, 0, len(aItems)+len(pItems))
			merged = append(merged, aItems...)
			merged = append(merged, pItems...)
			a["items"] = merged
		case []any:
			p, ok := pageVal.([]any)
			if !ok {
				continue
			}
			merged := make([]any, 0, len(a)+len(p))
			merged = append(merged, a...)
			merged = append(merged, p...)
			acc[key] = merged
		}
	}
}

// ItemCount returns the number of items the payload holds under key, in
// either collection shape. Missing keys and foreign shapes count as zero.
func ItemCount(payload map[string]any, key string) int {
	if payload == nil {
		return 0
	}
	items, ok := itemList(payload[key])
	if !ok {
		return 0
	}
	return len(items)
}

// emptyCollection reports whether a collection value carries no items at all.
func emptyCollection(v any) bool {
	switch raw := v.(type) {
	case nil:
		return true
	case []any:
		return len(raw) == 0
	case map[string]any:
		if len(raw) == 0 {
			return true
		}
		if items, ok := raw["items"].([]any); ok {
			return len(items) == 0
		}
		return false
	default:
		return false
	}
}
