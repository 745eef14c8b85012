package vectorstore

import (
	"fmt"
	"regexp"
)

// namespacePrefix keeps tenant namespaces apart from any other collections
// sharing the cluster.
const namespacePrefix = "tenant_"

var tenantIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,63}$`)

// NamespaceName maps a tenant ID to its deterministic namespace name.
// Tenant IDs are validated so a crafted ID can never escape into another
// tenant's namespace.
func NamespaceName(tenantID string) (string, error) {
	if !tenantIDPattern.MatchString(tenantID) {
		return "", fmt.Errorf("invalid tenant ID %q", tenantID)
	}
	return namespacePrefix + tenantID, nil
}
