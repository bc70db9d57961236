// Package watcher reloads the transaction feed when its local CSV changes.
//
// fsnotify watches the directory holding the file rather than the file
// itself, so editors that save via rename-and-replace are still seen.
// Bursts of events are coalesced; once the file has been quiet for the
// debounce interval the cached snapshot is invalidated and the feed reloaded.
//
// Example usage:
//
//	w, err := watcher.New(path, cachedLoader)
//	if err != nil {
//		return err
//	}
//	w.OnReload = func(ds *transactions.Dataset, err error) { ... }
//	return w.Run(ctx) // until SIGINT/SIGTERM or ctx is done
package watcher
