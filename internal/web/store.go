package web

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// JobStore keeps jobs for a limited time. Expired jobs are handed to the
// eviction callback so their files can be removed.
type JobStore struct {
	jobs *cache.Cache
}

// NewJobStore creates a store expiring jobs after ttl
func NewJobStore(ttl time.Duration, onEvict func(*Job)) *JobStore {
	return newJobStore(ttl, ttl/2, onEvict)
}

// newJobStore sweeps expired jobs every sweep; zero disables the janitor
func newJobStore(ttl, sweep time.Duration, onEvict func(*Job)) *JobStore {
	c := cache.New(ttl, sweep)
	if onEvict != nil {
		c.OnEvicted(func(_ string, v interface{}) {
			if job, ok := v.(*Job); ok {
				onEvict(job)
			}
		})
	}
	return &JobStore{jobs: c}
}

// Add stores a job under its ID
func (s *JobStore) Add(job *Job) {
	s.jobs.SetDefault(job.ID, job)
}

// Get returns the job with the given ID
func (s *JobStore) Get(id string) (*Job, bool) {
	v, ok := s.jobs.Get(id)
	if !ok {
		return nil, false
	}
	job, ok := v.(*Job)
	return job, ok
}

// Count returns the number of stored jobs, expired ones included
func (s *JobStore) Count() int {
	return s.jobs.ItemCount()
}

// Flush evicts every job, running the eviction callback for each.
// Expired jobs the janitor has not reached yet are evicted too.
func (s *JobStore) Flush() {
	s.jobs.DeleteExpired()
	for id := range s.jobs.Items() {
		s.jobs.Delete(id)
	}
}
