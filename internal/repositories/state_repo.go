package repositories

// StateRepository persists client-side session state under fixed keys.
type StateRepository interface {
	// Get returns the value stored under key and whether it exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Delete removes every given key; missing keys are ignored.
	Delete(keys ...string) error
}
