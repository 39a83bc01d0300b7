package composables

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hseworks/picatrack/pkg/configuration"
)

// ApplyTenantRLS pins the transaction to the tenant in context so that
// database-side row-level security policies see the same organization the
// application filters by. A no-op unless RLS_ENFORCE=enforce.
func ApplyTenantRLS(ctx context.Context, tx pgx.Tx) error {
	if configuration.Use().RLSEnforce != "enforce" {
		return nil
	}
	tenantID, err := UseTenantID(ctx)
	if err != nil {
		return fmt.Errorf("rls requires tenant in context: %w", err)
	}
	_, err = tx.Exec(ctx, "SELECT set_config('app.current_tenant', $1, true)", tenantID.String())
	if err != nil {
		return fmt.Errorf("failed to set rls tenant context: %w", err)
	}
	return nil
}
