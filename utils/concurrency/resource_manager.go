// Package concurrency implements a simple channel based resource manager for concurrent operations.
package concurrency

import (
	"fmt"
	"runtime"
	"sync"
)

// ResourceManager is a struct storing a channel of some given resource (e.g. a worker slot
// or a scratch buffer) meant to be used concurrently, and the first error returned by a [Task].
type ResourceManager[T any] struct {
	wg        sync.WaitGroup
	Resources chan T

	mu  sync.Mutex
	err error
}

// NewResourceManager instantiates a new [ResourceManager].
// The number of resources bounds the number of [Task] running at the same time.
func NewResourceManager[T any](resources []T) *ResourceManager[T] {

	if len(resources) == 0 {
		panic(fmt.Errorf("cannot NewResourceManager: at least one resource is required"))
	}

	Resources := make(chan T, len(resources))
	for i := range resources {
		Resources <- resources[i]
	}
	return &ResourceManager[T]{
		Resources: Resources,
	}
}

// NewWorkerPool returns a [ResourceManager] whose resources are the
// worker indexes [0, workers). If workers is smaller than one,
// runtime.NumCPU() workers are used.
func NewWorkerPool(workers int) *ResourceManager[int] {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	slots := make([]int, workers)
	for i := range slots {
		slots[i] = i
	}
	return NewResourceManager(slots)
}

// Task is an abstract template for a function taking as input
// a resource of any kind that can be used concurrently.
type Task[T any] func(resource T) (err error)

// Run runs a [Task] concurrently.
// If an error has already been recorded, does nothing.
// The first error returned by a [Task], or the first panic
// raised by a [Task], is recorded and later returned by [ResourceManager.Wait].
func (r *ResourceManager[T]) Run(f Task[T]) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		resource := <-r.Resources
		defer func() { r.Resources <- resource }()

		if r.Err() != nil {
			return
		}

		r.record(r.call(f, resource))
	}()
}

// RunRange runs f(resource, i) for each i in [0, n) on at most one
// goroutine per resource. The indexes are fed in increasing order from
// the calling goroutine, which blocks until every index has been taken.
// Once an error has been recorded, the remaining indexes are skipped.
// Errors and panics are recorded as by [ResourceManager.Run].
func (r *ResourceManager[T]) RunRange(n int, f func(resource T, i int) (err error)) {

	indexes := make(chan int)

	for w, workers := 0, min(n, cap(r.Resources)); w < workers; w++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()

			resource := <-r.Resources
			defer func() { r.Resources <- resource }()

			for i := range indexes {
				if r.Err() == nil {
					r.record(r.call(func(resource T) error { return f(resource, i) }, resource))
				}
			}
		}()
	}

	for i := 0; i < n; i++ {
		indexes <- i
	}

	close(indexes)
}

func (r *ResourceManager[T]) record(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	if r.err == nil {
		r.err = err
	}
	r.mu.Unlock()
}

func (r *ResourceManager[T]) call(f Task[T], resource T) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task panicked: %v", rec)
		}
	}()
	return f(resource)
}

// Err returns the first recorded error, if any.
func (r *ResourceManager[T]) Err() (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Wait waits until all concurrent [Task] have finished and returns
// the first encountered error, if any.
func (r *ResourceManager[T]) Wait() (err error) {
	r.wg.Wait()
	return r.Err()
}
