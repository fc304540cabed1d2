package store

// Storage defines how a dataset snapshot is loaded at start-up and saved
// after successful mutations.
type Storage interface {
	Load() (*Dataset, error)
	Save(d *Dataset) error
	Close() error
}
