package ai

import (
	"fmt"
	"strconv"
	"strings"
)

type pathStep struct {
	field string
	index int
	isIdx bool
}

// extractJSONPath walks paths like "choices[0].message.content" and
// returns the string at the end.
func extractJSONPath(data map[string]interface{}, path string) (string, error) {
	steps, err := parsePath(path)
	if err != nil {
		return "", err
	}

	var current interface{} = data
	for _, step := range steps {
		if step.isIdx {
			arr, ok := current.([]interface{})
			if !ok {
				return "", fmt.Errorf("expected array at index %d", step.index)
			}
			if step.index < 0 || step.index >= len(arr) {
				return "", fmt.Errorf("index %d out of bounds (len=%d)", step.index, len(arr))
			}
			current = arr[step.index]
			continue
		}
		obj, ok := current.(map[string]interface{})
		if !ok {
			return "", fmt.Errorf("expected object at '%s'", step.field)
		}
		if current, ok = obj[step.field]; !ok {
			return "", fmt.Errorf("field '%s' not found", step.field)
		}
	}

	if s, ok := current.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("final value is not a string: %T", current)
}

func parsePath(path string) ([]pathStep, error) {
	var steps []pathStep
	var field strings.Builder
	flush := func() {
		if field.Len() > 0 {
			steps = append(steps, pathStep{field: field.String()})
			field.Reset()
		}
	}

	for i := 0; i < len(path); i++ {
		switch ch := path[i]; ch {
		case '.':
			flush()
		case '[':
			flush()
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("unclosed '[' in path %q", path)
			}
			idx, err := strconv.Atoi(path[i+1 : i+end])
			if err != nil {
				return nil, fmt.Errorf("bad index in path %q: %w", path, err)
			}
			steps = append(steps, pathStep{index: idx, isIdx: true})
			i += end
		default:
			field.WriteByte(ch)
		}
	}
	flush()
	if len(steps) == 0 {
		return nil, fmt.Errorf("empty response path")
	}
	return steps, nil
}
