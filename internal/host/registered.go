package host

import "sync"

// RegisteredObjects is the node-scoped registered-object cache. Builds park
// arbitrary keyed objects here so cooperating handlers on the same node can
// find them again. The cache survives build boundaries on a reused node and
// is only cleared when the node goes away for good.
type RegisteredObjects struct {
	mu      sync.Mutex
	objects map[string]any
}

// NewRegisteredObjects creates an empty cache.
func NewRegisteredObjects() *RegisteredObjects {
	return &RegisteredObjects{objects: make(map[string]any)}
}

// Register stores obj under key, replacing any previous entry.
func (r *RegisteredObjects) Register(key string, obj any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects[key] = obj
}

// Get returns the object stored under key.
func (r *RegisteredObjects) Get(key string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj, ok := r.objects[key]
	return obj, ok
}

// Len reports the number of registered objects.
func (r *RegisteredObjects) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.objects)
}

// Clear drops every registered object.
func (r *RegisteredObjects) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects = make(map[string]any)
}
