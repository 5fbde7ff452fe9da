package strategy

import (
	"context"
	"fmt"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module"
)

// Cipher1KeyRecovery attacks the single round cipher. Both of its subkeys are
// outermost subkeys, so the whole attack is the last-round attack.
type Cipher1KeyRecovery struct {
	*base
}

var _ module.KeyRecoveryStrategy = (*Cipher1KeyRecovery)(nil)

// RecoverKeyInformation always fails: Cipher1 has no intermediate rounds.
func (c *Cipher1KeyRecovery) RecoverKeyInformation(_ context.Context, _ dca.Subkeys, config *dca.RoundConfiguration) (*dca.RoundResult, error) {
	return nil, fmt.Errorf("%s has no intermediate round %d: %w", c.algorithm, config.Round, ErrInvalidRound)
}

func (c *Cipher1KeyRecovery) AttackFirstRound(ctx context.Context, subkeys dca.Subkeys) (*dca.LastRoundResult, error) {
	return c.attackLastRound(ctx, subkeys)
}
