package domain

import "context"

// ServicePort is the interface implemented by the ksef connection service
type ServicePort interface {
	SaveToken(ctx context.Context, tenantID, companyID string, in SaveTokenInput) (StatusView, error)
	Disconnect(ctx context.Context, tenantID, companyID string) (StatusView, error)
	TestConnection(ctx context.Context, tenantID, companyID string) (TestResult, error)
	CheckConnection(ctx context.Context, tenantID, companyID string) (TestResult, error)
	Status(ctx context.Context, tenantID, companyID string) (StatusView, error)
}

// CompanyStore resolves a company for a tenant
// a missing company is NotFound and a company owned by another tenant is Forbidden
type CompanyStore interface {
	FindCompany(ctx context.Context, tenantID, companyID string) (Company, error)
}
