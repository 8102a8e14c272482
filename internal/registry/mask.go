package registry

// MaskForDemo trims and redacts a serialized document for public demos:
// first floor area only, first entry per section, names reduced to first and
// last character, resident numbers and addresses blanked, amounts hidden.
func MaskForDemo(data map[string]any) map[string]any {
	masked := deepCopyMap(data)

	if title, ok := masked["title_info"].(map[string]any); ok {
		if areas, ok := title["areas"].([]map[string]any); ok && len(areas) > 1 {
			title["areas"] = areas[:1]
		}
	}

	if entries, ok := masked["section_a"].([]map[string]any); ok && len(entries) > 0 {
		first := entries[0]
		if owners, ok := first["owners"].([]map[string]any); ok {
			for _, o := range owners {
				if name, ok := o["name"].(string); ok && name != "" {
					o["name"] = maskName(name)
				}
				o["resident_number"] = "******-*******"
				if o["address"] != nil {
					o["address"] = "***"
				}
			}
		}
		masked["section_a"] = []map[string]any{first}
	}

	if entries, ok := masked["section_b"].([]map[string]any); ok && len(entries) > 0 {
		first := entries[0]
		first["max_claim_amount"] = nil
		first["deposit_amount"] = nil
		first["mortgagee"] = nil
		first["lessee"] = nil
		masked["section_b"] = []map[string]any{first}
	}

	if summary, ok := masked["major_summary"].(map[string]any); ok {
		if owners, ok := summary["owners"].([]map[string]any); ok && len(owners) > 0 {
			o := owners[0]
			if o["resident_number"] != nil {
				o["resident_number"] = "******"
			}
			if addr, ok := o["address"].(string); ok {
				r := []rune(addr)
				if len(r) > 5 {
					o["address"] = string(r[:5]) + "..."
				}
			}
			if name, ok := o["name"].(string); ok && name != "" {
				o["name"] = string([]rune(name)[:1]) + "*"
			}
			summary["owners"] = owners[:1]
		}
		if rights, ok := summary["rights"].([]map[string]any); ok && len(rights) > 1 {
			summary["rights"] = rights[:1]
		}
	}

	return masked
}

// maskName keeps the first and last character of names longer than two
// characters, only the first otherwise.
func maskName(name string) string {
	r := []rune(name)
	if len(r) > 2 {
		masked := make([]rune, 0, len(r))
		masked = append(masked, r[0])
		for i := 1; i < len(r)-1; i++ {
			masked = append(masked, '*')
		}
		return string(append(masked, r[len(r)-1]))
	}
	return string(r[:1]) + "*"
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, e := range t {
			out[i] = deepCopyMap(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}
