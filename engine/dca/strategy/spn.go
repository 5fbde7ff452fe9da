package strategy

import (
	"context"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module"
)

// SPNKeyRecovery attacks the multi round ciphers Cipher2 and Cipher3. Subkeys are
// searched round by round from the whitening key inwards; the two outermost
// subkeys are left to the last-round attack.
type SPNKeyRecovery struct {
	*base
}

var _ module.KeyRecoveryStrategy = (*SPNKeyRecovery)(nil)

func (s *SPNKeyRecovery) RecoverKeyInformation(ctx context.Context, subkeys dca.Subkeys, config *dca.RoundConfiguration) (*dca.RoundResult, error) {
	return s.searchRound(ctx, subkeys, config)
}

func (s *SPNKeyRecovery) AttackFirstRound(ctx context.Context, subkeys dca.Subkeys) (*dca.LastRoundResult, error) {
	return s.attackLastRound(ctx, subkeys)
}
