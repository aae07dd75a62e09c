package jsoncel

// Flatten maps nested input to dot separated keys under root,
// which is how CEL resolves qualified references at evaluation time:
//
//	{"extension": {"retention": "30d"}} -> 'entity.extension.retention' -> '30d'
//
// Intermediate objects are kept too, so 'entity.extension' is also set.
func Flatten(root string, data map[string]any) map[string]any {
	out := map[string]any{}
	flatten(out, root, data)
	return out
}

func flatten(out map[string]any, prefix string, data map[string]any) {
	for k, v := range data {
		key := prefix + "." + k
		out[key] = v
		if child, ok := v.(map[string]any); ok {
			flatten(out, key, child)
		}
	}
}
