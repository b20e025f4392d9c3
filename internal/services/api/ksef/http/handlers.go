// Package http provides http transport for the ksef connection module
package http

import (
	stdhttp "net/http"
	"strconv"

	"ksefconnect/internal/modkit/httpkit"
	perr "ksefconnect/internal/platform/errors"
	"ksefconnect/internal/services/api/ksef/domain"
	svc "ksefconnect/internal/services/api/ksef/service"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/{companyID}/ksef", h.status)
	httpkit.PutJSON[domain.SaveTokenInput](r, "/{companyID}/ksef/token", h.saveToken)
	httpkit.Delete(r, "/{companyID}/ksef/token", h.disconnect)
	httpkit.Post(r, "/{companyID}/ksef/test", h.test)
}

type handlers struct{ svc svc.Service }

// scope reads the tenant from the auth context and the company from the path
func scope(r *stdhttp.Request) (tenantID, companyID string, err error) {
	tenantID, err = httpkit.Tenant(r)
	if err != nil {
		return "", "", err
	}
	return tenantID, httpkit.Param(r, "companyID"), nil
}

// swagger:route GET /companies/{companyID}/ksef Ksef status
// @Summary KSeF connection status
// @Tags ksef
// @Produce json
// @Param companyID path string true "Company id"
// @Success 200 {object} domain.StatusView "ok"
// @Failure 403 {object} httpkit.Envelope "forbidden"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /companies/{companyID}/ksef [get]
func (h *handlers) status(r *stdhttp.Request) (any, error) {
	tid, cid, err := scope(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Status(r.Context(), tid, cid)
}

// swagger:route PUT /companies/{companyID}/ksef/token Ksef saveToken
// @Summary Store or rotate the KSeF token
// @Tags ksef
// @Accept json
// @Produce json
// @Param companyID path string true "Company id"
// @Param payload body domain.SaveTokenInput true "Token"
// @Success 200 {object} domain.StatusView "ok"
// @Failure 422 {object} httpkit.Envelope "validation"
// @Router /companies/{companyID}/ksef/token [put]
func (h *handlers) saveToken(r *stdhttp.Request, in domain.SaveTokenInput) (any, error) {
	tid, cid, err := scope(r)
	if err != nil {
		return nil, err
	}
	return h.svc.SaveToken(r.Context(), tid, cid, in)
}

// swagger:route DELETE /companies/{companyID}/ksef/token Ksef disconnect
// @Summary Remove the KSeF token
// @Tags ksef
// @Produce json
// @Param companyID path string true "Company id"
// @Success 200 {object} domain.StatusView "ok"
// @Router /companies/{companyID}/ksef/token [delete]
func (h *handlers) disconnect(r *stdhttp.Request) (any, error) {
	tid, cid, err := scope(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Disconnect(r.Context(), tid, cid)
}

// swagger:route POST /companies/{companyID}/ksef/test Ksef test
// @Summary Test the KSeF connection
// @Description Authenticates against KSeF with the stored token. The outcome is recorded on the
// @Description company unless dry_run is set.
// @Tags ksef
// @Produce json
// @Param companyID path string true "Company id"
// @Param dry_run query bool false "Do not record the outcome"
// @Success 200 {object} domain.TestResult "ok"
// @Failure 412 {object} httpkit.Envelope "no token or bad configuration"
// @Failure 424 {object} httpkit.Envelope "rejected by KSeF"
// @Failure 503 {object} httpkit.Envelope "KSeF unavailable"
// @Failure 504 {object} httpkit.Envelope "KSeF did not finish in time"
// @Router /companies/{companyID}/ksef/test [post]
func (h *handlers) test(r *stdhttp.Request) (any, error) {
	tid, cid, err := scope(r)
	if err != nil {
		return nil, err
	}
	dry := false
	if v := r.URL.Query().Get("dry_run"); v != "" {
		if dry, err = strconv.ParseBool(v); err != nil {
			return nil, perr.WithField(perr.InvalidArgf("dry_run must be a boolean"), "dry_run")
		}
	}
	if dry {
		return h.svc.TestConnection(r.Context(), tid, cid)
	}
	return h.svc.CheckConnection(r.Context(), tid, cid)
}
