package observability

import "sync"

// observe is a single recorded event. Only the fields relevant to the Kind
// are populated.
type observe struct {
	Kind          string
	Source        string
	Method, Route string
	Status        int
	CacheMs       float64
	DBMs          float64
	DurMs         float64
	OK            bool
}

// Inmem keeps a bounded ring of recent events plus cache hit/miss totals.
type Inmem struct {
	mu     sync.Mutex
	last   []*observe
	max    int
	totals struct {
		cacheHits, cacheMiss int
	}
}

func NewInmem(max int) *Inmem {
	return &Inmem{max: max}
}

func (m *Inmem) push(v *observe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[len(m.last)-m.max:]
	}
}

func (m *Inmem) ObserveList(source string, cacheMs, dbMs float64) {
	m.push(&observe{Kind: "list", Source: source, CacheMs: cacheMs, DBMs: dbMs})
}

func (m *Inmem) ObserveCreate(dbWriteMs float64) {
	m.push(&observe{Kind: "create", DBMs: dbWriteMs})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(&observe{Kind: "http", Method: method, Route: route, Status: status, DurMs: durMs})
}

func (m *Inmem) ObservePublish(durMs float64, ok bool) {
	m.push(&observe{Kind: "publish", DurMs: durMs, OK: ok})
}

func (m *Inmem) IncCacheHit() {
	m.mu.Lock()
	m.totals.cacheHits++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheMiss() {
	m.mu.Lock()
	m.totals.cacheMiss++
	m.mu.Unlock()
}

// CacheTotals reports lifetime hit/miss counts, for the health endpoint and tests.
func (m *Inmem) CacheTotals() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals.cacheHits, m.totals.cacheMiss
}
