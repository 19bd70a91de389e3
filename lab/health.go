package lab

import (
	"context"
	"runtime"
	"time"
)

type RuntimeInfo struct {
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	HeapAllocMB  uint64 `json:"heap_alloc_mb"`
	SysMB        uint64 `json:"sys_mb"`
}

type PoolInfo struct {
	Running  int `json:"running"`
	Capacity int `json:"capacity"`
}

// Health is the full status report.
type Health struct {
	Status          string           `json:"status"`
	Timestamp       time.Time        `json:"timestamp"`
	Version         string           `json:"version"`
	Uptime          string           `json:"uptime"`
	PrimesAvailable bool             `json:"primes_available"`
	KeysGenerated   bool             `json:"keys_generated"`
	Runtime         RuntimeInfo      `json:"system_info"`
	Pool            PoolInfo         `json:"pool"`
	SelfCheck       *SelfCheckResult `json:"self_check,omitempty"`
}

// Readiness reports whether every component can serve requests.
type Readiness struct {
	Ready      bool              `json:"ready"`
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type Liveness struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

func (s *Service) Health() Health {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	primes, keys := s.session.Status()
	h := Health{
		Status:          "healthy",
		Timestamp:       time.Now().UTC(),
		Version:         s.version,
		Uptime:          time.Since(s.started).Truncate(time.Second).String(),
		PrimesAvailable: primes,
		KeysGenerated:   keys,
		Runtime: RuntimeInfo{
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			HeapAllocMB:  ms.HeapAlloc >> 20,
			SysMB:        ms.Sys >> 20,
		},
		Pool: PoolInfo{Running: s.pool.Running(), Capacity: s.pool.Cap()},
	}
	if s.selfCheck != nil {
		if res, ok := s.selfCheck.Last(); ok {
			h.SelfCheck = &res
			if !res.OK {
				h.Status = "degraded"
			}
		}
	}
	return h
}

func (s *Service) Ready(ctx context.Context) Readiness {
	primes, keys := s.session.Status()
	r := Readiness{
		Ready:     true,
		Timestamp: time.Now().UTC(),
		Components: map[string]string{
			"prime_generator": "available",
			"rsa_crypto":      "available",
			"primes":          availability(primes),
			"keys":            availability(keys),
		},
	}

	if s.pool.IsClosed() {
		r.Ready = false
		r.Components["worker_pool"] = "closed"
	} else {
		r.Components["worker_pool"] = "available"
	}

	if s.selfCheck != nil {
		res, ok := s.selfCheck.Last()
		switch {
		case !ok:
			r.Ready = false
			r.Components["self_check"] = "pending"
		case !res.OK:
			r.Ready = false
			r.Components["self_check"] = "failed"
		default:
			r.Components["self_check"] = "passed"
		}
	}

	for name, probe := range s.probes {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := probe(pctx)
		cancel()
		if err != nil {
			r.Ready = false
			r.Components[name] = "unavailable"
		} else {
			r.Components[name] = "available"
		}
	}

	r.Status = "ready"
	if !r.Ready {
		r.Status = "not_ready"
	}
	return r
}

func (s *Service) Live() Liveness {
	return Liveness{Status: "alive", Timestamp: time.Now().UTC(), Version: s.version}
}

func availability(ok bool) string {
	if ok {
		return "available"
	}
	return "not_generated"
}
