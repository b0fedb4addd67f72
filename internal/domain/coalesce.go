package domain

// SameID reports whether two optional ids refer to the same record.
// Two nil ids are equal.
func SameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// IDPtr returns a pointer to a copy of id.
func IDPtr(id int64) *int64 {
	return &id
}
