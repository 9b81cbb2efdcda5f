package schema

import "strconv"

// Normalize returns a copy of input with values coerced to the canonical
// Go type their field declares. Multipart form bodies arrive with every
// value as a string and JSON decodes all numbers as float64; Normalize
// bridges both so Validate and the persistence layer see one shape.
// Values that cannot be coerced are copied through untouched and left for
// Validate to flag. The input map is never mutated.
func (s Schema) Normalize(input map[string]interface{}) map[string]interface{} {
	return normalizeObject(s.Fields, input)
}

func normalizeObject(fields []Field, input map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(input))
	for k, v := range input {
		out[k] = v
	}

	for _, f := range fields {
		value, present := out[f.Name]
		if !present {
			continue
		}
		switch f.Type {
		case TypeInt:
			switch v := value.(type) {
			case string:
				if n, err := strconv.ParseInt(v, 10, 64); err == nil {
					out[f.Name] = n
				}
			case float64:
				if v == float64(int64(v)) {
					out[f.Name] = int64(v)
				}
			case int:
				out[f.Name] = int64(v)
			}
		case TypeFloat:
			if v, ok := value.(string); ok {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					out[f.Name] = n
				}
			}
		case TypeBool:
			if v, ok := value.(string); ok {
				if b, err := strconv.ParseBool(v); err == nil {
					out[f.Name] = b
				}
			}
		case TypeObject:
			if v, ok := value.(map[string]interface{}); ok {
				out[f.Name] = normalizeObject(f.Fields, v)
			}
		}
	}
	return out
}
