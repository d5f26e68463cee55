package render

import (
	"sort"
	"strconv"
	"strings"
)

// FieldError is a validation message addressed at one form field. Array
// elements are addressed as "group[index]" once translated.
type FieldError struct {
	FieldName    string `json:"fieldName"`
	ErrorMessage string `json:"errorMessage"`
}

// TranslateErrors remaps backend validation errors into field-addressable
// errors. groups maps each array field name (for example "options") to the
// number of elements currently present in the submitted form.
//
// A bare group name expands into one error per element, "group.N.rest" is
// rewritten to "group[N]" and anything else passes through. The result is
// sorted with a numeric-aware comparison so "options[2]" precedes
// "options[10]".
func TranslateErrors(errs []FieldError, groups map[string]int) []FieldError {
	if len(errs) == 0 {
		return nil
	}

	out := make([]FieldError, 0, len(errs))
	for _, fe := range errs {
		name := strings.TrimSpace(fe.FieldName)

		if count, ok := groups[name]; ok {
			out = append(out, expandGroupError(name, count, fe.ErrorMessage)...)
			continue
		}
		if group, index, ok := splitElementPath(name); ok {
			out = append(out, FieldError{
				FieldName:    elementName(group, index),
				ErrorMessage: fe.ErrorMessage,
			})
			continue
		}
		out = append(out, FieldError{FieldName: name, ErrorMessage: fe.ErrorMessage})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return naturalLess(out[i].FieldName, out[j].FieldName)
	})
	return out
}

// An empty group still yields one addressable error so the message reaches
// the error summary.
func expandGroupError(group string, count int, message string) []FieldError {
	if count <= 0 {
		count = 1
	}
	out := make([]FieldError, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, FieldError{FieldName: elementName(group, i), ErrorMessage: message})
	}
	return out
}

func elementName(group string, index int) string {
	return group + "[" + strconv.Itoa(index) + "]"
}

// splitElementPath matches "<group>.<index>.<rest>".
func splitElementPath(name string) (string, int, bool) {
	parts := strings.SplitN(name, ".", 3)
	if len(parts) != 3 {
		return "", 0, false
	}
	group, rawIndex, rest := parts[0], parts[1], parts[2]
	if group == "" || rest == "" || strings.ContainsAny(group, "[]") {
		return "", 0, false
	}
	index, err := strconv.Atoi(rawIndex)
	if err != nil || index < 0 {
		return "", 0, false
	}
	return group, index, true
}

// naturalLess compares strings treating runs of digits as numbers.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		aDigits, bDigits := isDigit(a[0]), isDigit(b[0])
		switch {
		case aDigits && bDigits:
			var aRun, bRun string
			aRun, a = leadingRun(a, true)
			bRun, b = leadingRun(b, true)
			aTrim := strings.TrimLeft(aRun, "0")
			bTrim := strings.TrimLeft(bRun, "0")
			if len(aTrim) != len(bTrim) {
				return len(aTrim) < len(bTrim)
			}
			if aTrim != bTrim {
				return aTrim < bTrim
			}
			if len(aRun) != len(bRun) {
				return len(aRun) < len(bRun)
			}
		case !aDigits && !bDigits:
			var aRun, bRun string
			aRun, a = leadingRun(a, false)
			bRun, b = leadingRun(b, false)
			if aRun != bRun {
				return aRun < bRun
			}
		default:
			return aDigits
		}
	}
	return len(a) < len(b)
}

func leadingRun(s string, digits bool) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// ErrorsByField groups translated errors by field name for renderers,
// trimming and de-duplicating messages while preserving order.
func ErrorsByField(errs []FieldError) map[string][]string {
	if len(errs) == 0 {
		return nil
	}
	grouped := make(map[string][]string)
	for _, fe := range errs {
		grouped[fe.FieldName] = append(grouped[fe.FieldName], fe.ErrorMessage)
	}
	for name, messages := range grouped {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			delete(grouped, name)
			continue
		}
		grouped[name] = normalized
	}
	if len(grouped) == 0 {
		return nil
	}
	return grouped
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
