package assets

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"scenes/projects.glb": {Data: bytes.Repeat([]byte{7}, 200<<10)},
		"hdris/room.hdr":      {Data: []byte("#?RADIANCE\n")},
	}
}

func drain(m *Manager) {
	m.Wait()
	for m.Poll() > 0 {
	}
}

func TestLoadRunsCallbacksOnPoll(t *testing.T) {
	m := NewManager(Config{FS: testFS()})

	var got []byte
	var progress [][2]int64
	m.Load("scenes/projects.glb",
		func(loaded, total int64) { progress = append(progress, [2]int64{loaded, total}) },
		func(data []byte) { got = data },
		func(err error) { t.Fatalf("unexpected error: %v", err) },
	)

	assert.Equal(t, 1, m.Pending())
	m.Wait()
	assert.Nil(t, got, "callbacks wait for Poll")

	drain(m)
	assert.Len(t, got, 200<<10)
	require.NotEmpty(t, progress)
	last := progress[len(progress)-1]
	assert.Equal(t, [2]int64{200 << 10, 200 << 10}, last)
	assert.Zero(t, m.Pending())
}

func TestOnLoadFiresAfterEveryItemEnds(t *testing.T) {
	m := NewManager(Config{FS: testFS()})

	loads := 0
	var errURLs []string
	var steps [][2]int
	m.OnLoad = func() { loads++ }
	m.OnError = func(url string, err error) {
		errURLs = append(errURLs, url)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	m.OnProgress = func(_ string, loaded, total int) { steps = append(steps, [2]int{loaded, total}) }

	var itemErr error
	m.Load("scenes/projects.glb", nil, nil, nil)
	m.Load("videos/missing.mp4", nil, nil, func(err error) { itemErr = err })
	m.Load("hdris/room.hdr", nil, nil, nil)

	drain(m)
	assert.Equal(t, 1, loads)
	assert.Equal(t, []string{"videos/missing.mp4"}, errURLs)
	assert.ErrorIs(t, itemErr, ErrNotFound)
	require.Len(t, steps, 3)
	assert.Equal(t, [2]int{3, 3}, steps[2])
}

func TestOnStartOncePerBatch(t *testing.T) {
	m := NewManager(Config{FS: testFS()})
	starts := 0
	m.OnStart = func(string, int, int) { starts++ }

	m.Load("hdris/room.hdr", nil, nil, nil)
	m.Load("scenes/projects.glb", nil, nil, nil)
	drain(m)
	assert.Equal(t, 1, starts)

	m.Load("hdris/room.hdr", nil, nil, nil)
	drain(m)
	assert.Equal(t, 2, starts)
}

func TestCacheSharedAcrossManagers(t *testing.T) {
	cache := NewCache()
	fsys := testFS()

	first := NewManager(Config{FS: fsys, Cache: cache})
	first.Load("hdris/room.hdr", nil, nil, nil)
	drain(first)

	delete(fsys, "hdris/room.hdr")
	second := NewManager(Config{FS: fsys, Cache: cache})
	var got []byte
	second.Load("hdris/room.hdr", nil, func(data []byte) { got = data }, nil)
	assert.Nil(t, got)
	second.Poll()
	assert.Equal(t, []byte("#?RADIANCE\n"), got)

	hits, misses := cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestLeadingSlashAndTraversal(t *testing.T) {
	m := NewManager(Config{FS: testFS()})

	var ok bool
	var err error
	m.Load("/hdris/room.hdr", nil, func([]byte) { ok = true }, nil)
	m.Load("../etc/passwd", nil, nil, func(e error) { err = e })
	drain(m)

	assert.True(t, ok)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/room.hdr" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("remote"))
	}))
	defer srv.Close()

	m := NewManager(Config{FS: testFS(), Client: srv.Client()})
	var got []byte
	var total int64
	var err404 error
	m.Load(srv.URL+"/assets/room.hdr", func(_, t int64) { total = t }, func(d []byte) { got = d }, nil)
	m.Load(srv.URL+"/nope", nil, nil, func(err error) { err404 = err })
	drain(m)

	assert.Equal(t, []byte("remote"), got)
	assert.Equal(t, int64(6), total)
	assert.ErrorContains(t, err404, "404")
}

func TestCloseDropsCallbacks(t *testing.T) {
	m := NewManager(Config{FS: testFS()})
	called := false
	m.OnLoad = func() { called = true }

	m.Load("hdris/room.hdr", nil, func([]byte) { called = true }, nil)
	m.Close()
	drain(m)

	assert.False(t, called)
}

func TestCacheClear(t *testing.T) {
	c := NewCache()
	c.Set("a", []byte("x"))
	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Clear()
	_, ok = c.Get("a")
	assert.False(t, ok)
	hits, misses := c.Stats()
	assert.Zero(t, hits)
	assert.Equal(t, 1, misses)
}
