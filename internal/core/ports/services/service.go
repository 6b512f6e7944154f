package services

import "time"

// Clock abstracts time for the core so reconciliation runs are testable and
// GeneratedAt stamps stay monotonic under the test clock.
type Clock interface {
	Now() time.Time
}

// ServiceContainer holds all service facades for injection into handlers and
// the worker.
type ServiceContainer struct {
	Journal        JournalSvcFacade
	Reconciliation ReconciliationSvcFacade
	Payments       PaymentAggregatorSvc
}
