package api

import (
	"sync"

	"github.com/google/uuid"
)

// JobStore keeps completed job records in memory, newest last.
type JobStore struct {
	mu    sync.Mutex
	jobs  map[string]Job
	order []string
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]Job)}
}

// Put assigns the job a fresh id, stores it, and returns the stored record.
func (s *JobStore) Put(job Job) Job {
	job.ID = "job_" + uuid.NewString()
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)
	s.mu.Unlock()
	return job
}

func (s *JobStore) Get(id string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	return job, ok
}

// List returns all jobs in insertion order.
func (s *JobStore) List() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Job, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.jobs[id])
	}
	return out
}
