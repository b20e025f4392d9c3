package store

import "context"

type tenantKey struct{}

// WithTenant scopes transactions started with ctx to tenantID. Tx publishes it to
// row level security as the transaction local setting app.tenant_id.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

// TenantID reports the tenant set by WithTenant; an empty id counts as unset
func TenantID(ctx context.Context) (string, bool) {
	id, _ := ctx.Value(tenantKey{}).(string)
	return id, id != ""
}

// scopeTx runs first in every transaction
func scopeTx(ctx context.Context, q RowQuerier) error {
	id, ok := TenantID(ctx)
	if !ok {
		return nil
	}
	_, err := q.Exec(ctx, "SELECT set_config('app.tenant_id', $1, true)", id)
	return err
}
