package inventory

import "go.uber.org/fx"

var Module = fx.Module("inventory.ledger",
	fx.Provide(NewLedger),
)
