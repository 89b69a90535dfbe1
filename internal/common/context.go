package common

import "context"

type contextKey string

const (
	CustomerEmailKey contextKey = "customer_email"
	CustomerNameKey  contextKey = "customer_name"
	CustomerPhoneKey contextKey = "customer_phone"
	TenantIDKey      contextKey = "tenant_id"
)

// GetCustomerEmailFromContext returns the verified customer identity set
// by the identity middleware.
func GetCustomerEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(CustomerEmailKey).(string)
	return email, ok && email != ""
}

// GetCustomerNameFromContext returns the display name claim, if present.
func GetCustomerNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(CustomerNameKey).(string)
	return name, ok && name != ""
}

// GetCustomerPhoneFromContext returns the phone claim, if present.
func GetCustomerPhoneFromContext(ctx context.Context) (string, bool) {
	phone, ok := ctx.Value(CustomerPhoneKey).(string)
	return phone, ok && phone != ""
}
