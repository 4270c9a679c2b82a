// Package assets loads page assets asynchronously and tracks their completion.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/roomfolio/internal/logger"
)

// ProgressFunc reports bytes read for one item. total is -1 when unknown.
type ProgressFunc func(loaded, total int64)

// LoadFunc receives the bytes of a finished item.
type LoadFunc func(data []byte)

// ErrorFunc receives the failure of one item.
type ErrorFunc func(err error)

// ErrNotFound is returned for assets missing from the asset root.
var ErrNotFound = errors.New("asset not found")

// Config configures a Manager.
type Config struct {
	// FS serves relative asset paths. Defaults to the directory Root.
	FS   fs.FS
	Root string
	// Client fetches http(s) URLs. Defaults to http.DefaultClient.
	Client *http.Client
	// Cache is shared between managers so revisiting a page is instant.
	Cache *Cache
}

// Manager tracks a group of asynchronous loads, like a page's scene and
// environment. Reads run on goroutines; every callback, including the
// manager-level ones, runs on the goroutine that calls Poll.
type Manager struct {
	fsys   fs.FS
	client *http.Client
	cache  *Cache
	log    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	queue  []func()
	closed bool

	itemsLoaded int
	itemsTotal  int

	// OnStart is called when the first item of a batch starts.
	OnStart func(url string, loaded, total int)
	// OnProgress is called after each item ends.
	OnProgress func(url string, loaded, total int)
	// OnLoad is called when every started item has ended, whether it
	// loaded or failed.
	OnLoad func()
	// OnError is called for each failed item.
	OnError func(url string, err error)
}

// NewManager creates a manager.
func NewManager(cfg Config) *Manager {
	fsys := cfg.FS
	if fsys == nil {
		fsys = os.DirFS(cfg.Root)
	}
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	cache := cfg.Cache
	if cache == nil {
		cache = NewCache()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		fsys:   fsys,
		client: client,
		cache:  cache,
		log:    logger.Named("assets"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Load starts reading url. Relative paths are read from the asset root,
// http(s) URLs are fetched. Any callback may be nil.
func (m *Manager) Load(url string, onProgress ProgressFunc, onLoad LoadFunc, onError ErrorFunc) {
	m.itemStart(url)

	if data, ok := m.cache.Get(url); ok {
		m.enqueue(func() {
			if onLoad != nil {
				onLoad(data)
			}
			m.itemEnd(url)
		})
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		data, err := m.read(url, func(loaded, total int64) {
			if onProgress == nil {
				return
			}
			m.enqueue(func() { onProgress(loaded, total) })
		})

		m.enqueue(func() {
			if err != nil {
				m.log.Warn("asset load failed", zap.String("url", url), zap.Error(err))
				if onError != nil {
					onError(err)
				}
				if m.OnError != nil {
					m.OnError(url, err)
				}
			} else {
				m.cache.Set(url, data)
				if onLoad != nil {
					onLoad(data)
				}
			}
			m.itemEnd(url)
		})
	}()
}

func (m *Manager) itemStart(url string) {
	m.itemsTotal++
	if m.itemsTotal-m.itemsLoaded == 1 && m.OnStart != nil {
		m.OnStart(url, m.itemsLoaded, m.itemsTotal)
	}
}

func (m *Manager) itemEnd(url string) {
	m.itemsLoaded++
	if m.OnProgress != nil {
		m.OnProgress(url, m.itemsLoaded, m.itemsTotal)
	}
	if m.itemsLoaded == m.itemsTotal && m.OnLoad != nil {
		m.OnLoad()
	}
}

// Pending reports how many started items have not ended yet.
func (m *Manager) Pending() int {
	return m.itemsTotal - m.itemsLoaded
}

func (m *Manager) enqueue(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.queue = append(m.queue, fn)
}

// Poll runs queued callbacks in completion order and returns how many ran.
// Callbacks queued while polling run on the next call.
func (m *Manager) Poll() int {
	m.mu.Lock()
	q := m.queue
	m.queue = nil
	m.mu.Unlock()

	for _, fn := range q {
		fn()
	}
	return len(q)
}

// Wait blocks until every in-flight read has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Close cancels in-flight fetches and drops callbacks that have not run.
// Reads from the asset root are not interruptible and finish silently.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.queue = nil
	m.mu.Unlock()
	m.cancel()
}

func (m *Manager) read(url string, progress ProgressFunc) ([]byte, error) {
	if isRemote(url) {
		return m.fetch(url, progress)
	}

	name := path.Clean(strings.TrimPrefix(url, "/"))
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	f, err := m.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
		}
		return nil, err
	}
	defer f.Close()

	total := int64(-1)
	if st, err := f.Stat(); err == nil {
		total = st.Size()
	}
	return readAll(f, total, progress)
}

func (m *Manager) fetch(url string, progress ProgressFunc) ([]byte, error) {
	req, err := http.NewRequestWithContext(m.ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return readAll(resp.Body, resp.ContentLength, progress)
}

func isRemote(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
