package artifact

import "context"

// Mirror copies a local report artifact to an external location and returns a
// URL callers can hand out. Sharing is best-effort: when no mirror is
// configured the service falls back to a local download link.
type Mirror interface {
	Upload(ctx context.Context, localPath, key string) (url string, err error)
}
