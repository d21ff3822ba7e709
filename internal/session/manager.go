package session

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/polarisml/console-gateway/internal/apiclient"
	"github.com/polarisml/console-gateway/internal/models"
	"github.com/polarisml/console-gateway/internal/routeclass"
	"github.com/polarisml/console-gateway/internal/token"
)

// entryTTL bounds how long a resolved profile is reused before the next
// request re-validates it against the platform API.
const entryTTL = 30 * time.Second

// Broadcaster notifies other tabs of the same visitor that their session
// ended. Keyed by token fingerprint, never the raw token.
type Broadcaster interface {
	SignedOut(fingerprint string)
}

// Manager resolves and mutates per-visitor session state. Entries live in
// process memory only; the token cookie remains the single durable state.
type Manager struct {
	client *apiclient.Client
	store  *token.Store
	events Broadcaster // optional

	mu      sync.Mutex
	entries map[string]*entry
}

// entry is one visitor's resolution record. gen increments on logout so a
// profile fetch that completes afterwards cannot resurrect the user.
type entry struct {
	gen        int
	resolved   bool
	user       *models.User
	resolvedAt time.Time
	done       chan struct{} // closed when resolution completes
}

func NewManager(client *apiclient.Client, store *token.Store, events Broadcaster) *Manager {
	return &Manager{
		client:  client,
		store:   store,
		events:  events,
		entries: make(map[string]*entry),
	}
}

// Resolve returns the visitor's session, performing the profile fetch at
// most once per entry lifetime. No token resolves anonymous with no network
// call. A failed fetch (network, 401, malformed body) resolves anonymous
// and clears the token; it does not itself force a navigation. The guards
// and edge gate own redirects, which avoids loops during bootstrap.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) *Session {
	tok := m.store.Get(r)
	if tok == "" {
		return &Session{}
	}
	fp := token.Fingerprint(tok)

	m.mu.Lock()
	e, ok := m.entries[fp]
	if ok && e.resolved {
		if time.Since(e.resolvedAt) < entryTTL {
			user := e.user
			m.mu.Unlock()
			return &Session{User: user}
		}
		// Stale: resolve again under the same entry (and generation).
		e.resolved = false
		e.done = make(chan struct{})
	} else if !ok {
		e = &entry{done: make(chan struct{})}
		m.entries[fp] = e
	} else {
		// Another request is resolving this visitor; wait for it.
		done := e.done
		m.mu.Unlock()
		select {
		case <-done:
			return m.snapshot(fp)
		case <-r.Context().Done():
			return &Session{Loading: true}
		}
	}
	gen := e.gen
	done := e.done
	m.mu.Unlock()

	ctx := token.WithRequestToken(r.Context(), tok)
	user, err := m.client.Profile(ctx)
	if err != nil {
		log.Printf("session: profile fetch failed: %v", err)
		m.store.Clear(w)
		user = nil
	}

	m.mu.Lock()
	// Discard a stale completion: logout won while we were fetching.
	if cur, ok := m.entries[fp]; ok && cur == e && cur.gen == gen {
		e.user = user
		e.resolved = true
		e.resolvedAt = time.Now()
	}
	m.mu.Unlock()

	// Wake waiters unconditionally. When logout or a new login displaced
	// the entry mid-fetch they re-read whatever state won instead of
	// blocking on a channel nothing will close.
	close(done)

	return &Session{User: user}
}

// snapshot reads a resolved entry without triggering resolution.
func (m *Manager) snapshot(fp string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[fp]; ok && e.resolved {
		return &Session{User: e.user}
	}
	return &Session{}
}

// Login exchanges credentials for a token, persists it, and seeds the
// session entry. On failure nothing is mutated and the message comes from
// the API's error field when present.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, email, password string) Result {
	res, err := m.client.SignIn(r.Context(), email, password)
	if err != nil {
		return Result{Success: false, Message: apiclient.UserMessage(err)}
	}
	m.establish(w, res)
	return Result{Success: true, User: res.User, Redirect: routeclass.HomeRoute}
}

// Register creates an account via the sign-up endpoint; the composed name
// is the caller's responsibility. Contract identical to Login.
func (m *Manager) Register(w http.ResponseWriter, r *http.Request, input apiclient.SignUpInput) Result {
	res, err := m.client.SignUp(r.Context(), input)
	if err != nil {
		return Result{Success: false, Message: apiclient.UserMessage(err)}
	}
	m.establish(w, res)
	return Result{Success: true, User: res.User, Redirect: routeclass.HomeRoute}
}

// Logout clears the token and drops the visitor's entry. Idempotent: safe
// when already signed out.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) Result {
	tok := m.store.Get(r)
	m.store.Clear(w)
	if tok != "" {
		m.Invalidate(token.Fingerprint(tok))
	}
	return Result{Success: true, Redirect: routeclass.SignInRoute}
}

// Invalidate drops the entry for a token fingerprint and notifies other
// tabs. Called by Logout and by the API client's 401 interception.
func (m *Manager) Invalidate(fp string) {
	if fp == "" {
		return
	}
	m.mu.Lock()
	if e, ok := m.entries[fp]; ok {
		e.gen++
		delete(m.entries, fp)
	}
	m.mu.Unlock()
	if m.events != nil {
		m.events.SignedOut(fp)
	}
}

// establish persists the token and seeds a resolved entry so the next page
// load does not refetch the profile it already has.
func (m *Manager) establish(w http.ResponseWriter, res *apiclient.AuthResult) {
	m.store.Set(w, res.Token)
	fp := token.Fingerprint(res.Token)

	done := make(chan struct{})
	close(done)

	m.mu.Lock()
	m.entries[fp] = &entry{
		resolved:   true,
		user:       res.User,
		resolvedAt: time.Now(),
		done:       done,
	}
	m.pruneLocked()
	m.mu.Unlock()
}

// pruneLocked drops long-stale entries; called opportunistically with the
// lock held.
func (m *Manager) pruneLocked() {
	cutoff := time.Now().Add(-10 * entryTTL)
	for fp, e := range m.entries {
		if e.resolved && e.resolvedAt.Before(cutoff) {
			delete(m.entries, fp)
		}
	}
}
