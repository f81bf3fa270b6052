package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Arslanmonuahmad/tiplu/internal/config"
	"github.com/Arslanmonuahmad/tiplu/internal/repository"
)

func testConfig() config.Config {
	return config.Config{
		BotName:               "Lily",
		StartingMessages:      10,
		StartingImages:        3,
		ReferralBonusMessages: 10,
		ReferralBonusImages:   2,
		ChargeOnFallback:      true,
		UPIID:                 "lily@upi",
		Tiers: [2]config.Tier{
			{Number: 1, Price: 99, Messages: 100, Images: 20},
			{Number: 2, Price: 199, Messages: 250, Images: 50},
		},
	}
}

func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	store, err := repository.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}
