// Package inmemdb provides map-backed repositories for tests and local
// hacking; ordering and filtering semantics mirror the sqlx package.
package inmemdb

import (
	"sort"
	"strings"
	"sync"

	"github.com/alumniconnect/alumniconnect/core"
	"github.com/alumniconnect/alumniconnect/core/event"
	"github.com/alumniconnect/alumniconnect/core/feed"
	"github.com/alumniconnect/alumniconnect/core/job"
	"github.com/alumniconnect/alumniconnect/core/mentorship"
	"github.com/alumniconnect/alumniconnect/core/report"
	"github.com/alumniconnect/alumniconnect/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users       map[string]*user.User
	jobs        map[string]*job.Job
	events      map[string]*event.Event
	mentorships map[string]*mentorship.Request
	posts       map[string]*feed.Post
	reports     map[string]*report.Report
}

func NewDB() *DB {
	return &DB{
		users:       make(map[string]*user.User),
		jobs:        make(map[string]*job.Job),
		events:      make(map[string]*event.Event),
		mentorships: make(map[string]*mentorship.Request),
		posts:       make(map[string]*feed.Post),
		reports:     make(map[string]*report.Report),
	}
}

// Reset drops all data; handy between test cases.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.users = make(map[string]*user.User)
	db.jobs = make(map[string]*job.Job)
	db.events = make(map[string]*event.Event)
	db.mentorships = make(map[string]*mentorship.Request)
	db.posts = make(map[string]*feed.Post)
	db.reports = make(map[string]*report.Report)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// sortBy applies the first recognized ordering field via the provided
// less functions; created_at descending is the usual fallback.
func sortBy[T any](items []T, ordering []core.DBOrdering, lessFns map[string]func(a, b T) bool, fallback func(a, b T) bool) {
	for _, ord := range ordering {
		if less, ok := lessFns[ord.Field]; ok {
			if ord.Ascending {
				sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
			} else {
				sort.SliceStable(items, func(i, j int) bool { return less(items[j], items[i]) })
			}
			return
		}
	}
	if fallback != nil {
		sort.SliceStable(items, func(i, j int) bool { return fallback(items[i], items[j]) })
	}
}
