package audit

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LookupFunc resolves the email address of an owner login.
type LookupFunc func(ctx context.Context, login string) (string, error)

// ContactCache memoizes owner emails for the lifetime of one run. Each
// distinct login is looked up at most once; concurrent callers for the same
// login wait for the same lookup. Failed lookups are not cached.
type ContactCache struct {
	lookup LookupFunc

	mu     sync.RWMutex
	emails map[string]string
	group  singleflight.Group
}

func NewContactCache(lookup LookupFunc) *ContactCache {
	return &ContactCache{
		lookup: lookup,
		emails: map[string]string{},
	}
}

func (c *ContactCache) Email(ctx context.Context, login string) (string, error) {
	if email, ok := c.get(login); ok {
		return email, nil
	}

	v, err, _ := c.group.Do(login, func() (interface{}, error) {
		if email, ok := c.get(login); ok {
			return email, nil
		}

		log.Printf("    Searching for email address for project contact: %s", login)
		email, err := c.lookup(ctx, login)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.emails[login] = email
		c.mu.Unlock()
		return email, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *ContactCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.emails)
}

func (c *ContactCache) get(login string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	email, ok := c.emails[login]
	return email, ok
}
