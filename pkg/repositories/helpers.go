package repositories

// nullIfEmpty maps empty strings to SQL NULL so optional audit columns stay
// NULL instead of storing zero-length strings.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
