// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package diagnostics

import (
	"context"
	"sync"
	"time"

	"github.com/VENUHARGI/OnlineVoting/apiclient"
	"github.com/VENUHARGI/OnlineVoting/models"
)

// ProbeTimeout bounds each health probe
const ProbeTimeout = 5 * time.Second

// Status of one probed service
type Status string

const (
	StatusGood  Status = "good"
	StatusError Status = "error"
)

// Service is a probed backend component
type Service struct {
	Name  string
	Label string
	Path  string
}

// Services are probed in this order and reported in this order
var Services = []Service{
	{Name: "auth", Label: "Authentication Service", Path: apiclient.HealthAuth},
	{Name: "voting", Label: "Voting Service", Path: apiclient.HealthVoting},
	{Name: "database", Label: "Database Service", Path: apiclient.HealthDatabase},
}

// ServiceStatus is the outcome of one probe
type ServiceStatus struct {
	Service
	Status  Status
	Latency time.Duration
	Err     error
}

// Prober is the health call used by CheckServices
type Prober interface {
	Health(ctx context.Context, path string) (models.HealthStatus, error)
}

// CheckServices probes every service concurrently, each bounded by
// timeout (ProbeTimeout when zero). A failed probe is reported as
// StatusError in its slot; the call itself never fails.
func CheckServices(ctx context.Context, p Prober, timeout time.Duration) []ServiceStatus {
	if timeout <= 0 {
		timeout = ProbeTimeout
	}

	results := make([]ServiceStatus, len(Services))
	var wg sync.WaitGroup
	for i, svc := range Services {
		wg.Add(1)
		go func(i int, svc Service) {
			defer wg.Done()
			results[i] = probe(ctx, p, svc, timeout)
		}(i, svc)
	}
	wg.Wait()
	return results
}

func probe(ctx context.Context, p Prober, svc Service, timeout time.Duration) ServiceStatus {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	_, err := p.Health(ctx, svc.Path)
	st := ServiceStatus{Service: svc, Status: StatusGood, Latency: time.Since(start), Err: err}
	if err != nil {
		st.Status = StatusError
	}
	return st
}

// AllGood reports whether every probe succeeded
func AllGood(statuses []ServiceStatus) bool {
	for _, s := range statuses {
		if s.Status != StatusGood {
			return false
		}
	}
	return len(statuses) > 0
}
