package observability

type Metrics interface {
	ObserveList(source string, cacheMs, dbMs float64)
	ObserveCreate(dbWriteMs float64)
	ObserveHTTP(method, route string, status int, durMs float64)
	ObservePublish(durMs float64, ok bool)
	IncCacheHit()
	IncCacheMiss()
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveList(string, float64, float64)     {}
func (Noop) ObserveCreate(float64)                    {}
func (Noop) ObserveHTTP(string, string, int, float64) {}
func (Noop) ObservePublish(float64, bool)             {}
func (Noop) IncCacheHit()                             {}
func (Noop) IncCacheMiss()                            {}
