package ports

// DirectoryLocker serializes mutating runs over the same directory tree
type DirectoryLocker interface {
	// Acquire blocks until the lock for root is held and returns its release func
	Acquire(root string) (release func() error, err error)
	// TryAcquire fails with application.ErrLocked instead of waiting
	TryAcquire(root string) (release func() error, err error)
}
