package models

func IntPtr(v int) *int { return &v }

func StringPtr(v string) *string { return &v }

// IntValue dereferences p, returning 0 for nil.
func IntValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
