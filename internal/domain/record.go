package domain

// Record is the loosely-typed shape records take at the store boundary.
// Field values may be strings, numbers, booleans, nil or missing.
type Record map[string]any
