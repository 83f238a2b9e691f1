package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ── Asset Manager ──

type asset struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Mime    string    `json:"mime"`
	Size    int       `json:"size"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Added   time.Time `json:"added"`
	URL     string    `json:"url"`
	path    string
	sortKey int64
}

// assetManager keeps uploaded images on disk under dir so scenes can refer
// to them by id.
type assetManager struct {
	mu     sync.RWMutex
	dir    string
	assets map[string]*asset
	seq    int64
}

func newAssetManager(dir string) *assetManager {
	return &assetManager{dir: dir, assets: make(map[string]*asset)}
}

func (am *assetManager) add(name string, data []byte, mimeType, ext string, w, h int) (*asset, error) {
	id := uuid.New().String()
	path := filepath.Join(am.dir, id+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("store asset: %w", err)
	}

	am.mu.Lock()
	defer am.mu.Unlock()
	am.seq++
	a := &asset{
		ID:      id,
		Name:    name,
		Mime:    mimeType,
		Size:    len(data),
		Width:   w,
		Height:  h,
		Added:   time.Now().UTC(),
		URL:     "/api/assets/" + id,
		path:    path,
		sortKey: am.seq,
	}
	am.assets[id] = a
	return a, nil
}

func (am *assetManager) get(id string) (*asset, bool) {
	am.mu.RLock()
	a, ok := am.assets[id]
	am.mu.RUnlock()
	return a, ok
}

// listAll returns assets in upload order.
func (am *assetManager) listAll() []asset {
	am.mu.RLock()
	defer am.mu.RUnlock()
	result := make([]asset, 0, len(am.assets))
	for _, a := range am.assets {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].sortKey < result[j].sortKey })
	return result
}

func (am *assetManager) remove(id string) bool {
	am.mu.Lock()
	a, ok := am.assets[id]
	delete(am.assets, id)
	am.mu.Unlock()
	if ok {
		os.Remove(a.path)
	}
	return ok
}

// resolve maps an asset id to its stored file. Anything that is not a
// known id is rejected; client strings never reach the filesystem.
func (am *assetManager) resolve(id string) (string, bool) {
	a, ok := am.get(id)
	if !ok {
		return "", false
	}
	return a.path, true
}
