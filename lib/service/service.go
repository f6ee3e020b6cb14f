package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/transfersafe/router/common"
	"github.com/transfersafe/router/db/models"
	"github.com/transfersafe/router/lib/security"
	"github.com/transfersafe/router/rabbitmq"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

// RouterService owns the invoice registry, the fee rate and the role set.
// Mutations are serialized through mu and each runs inside a single database transaction.
type RouterService struct {
	Config         *Config
	DB             *bun.DB
	Logger         *lecho.Logger
	Clock          clockwork.Clock
	InvoicePubSub  *Pubsub
	NonceStore     security.NonceStore
	RabbitMQClient rabbitmq.Client

	mu sync.Mutex
}

func (svc *RouterService) now() time.Time {
	if svc.Clock == nil {
		return time.Now().UTC()
	}
	return svc.Clock.Now().UTC()
}

// Now is the router's notion of the current time, used for lock windows and login messages.
func (svc *RouterService) Now() time.Time {
	return svc.now()
}

func (svc *RouterService) withTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.DB.RunInTx(ctx, &sql.TxOptions{}, fn)
}

// Init is the construction step: on an empty store it records the chain id and the default
// fee rate and hands both administrative roles to the deployer. Later calls only verify that
// the stored chain id still matches the configuration.
func (svc *RouterService) Init(ctx context.Context, deployer ethcommon.Address) (*models.RouterSettings, error) {
	if svc.Config.ChainID <= 0 {
		return nil, fmt.Errorf("%w: chain id must be positive, got %d", ErrInvalidInput, svc.Config.ChainID)
	}
	settings := &models.RouterSettings{}
	err := svc.withTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		existing, err := loadSettings(ctx, tx)
		switch {
		case err == nil:
			if existing.ChainID != svc.Config.ChainID {
				return fmt.Errorf("%w: stored %d, configured %d", ErrChainIDMismatch, existing.ChainID, svc.Config.ChainID)
			}
			*settings = *existing
			return nil
		case !errors.Is(err, ErrNotInitialized):
			return err
		}

		if deployer == (ethcommon.Address{}) {
			return fmt.Errorf("%w: deployer address is required", ErrInvalidInput)
		}
		now := svc.now()
		*settings = models.RouterSettings{
			ID:        models.SettingsID,
			ChainID:   svc.Config.ChainID,
			FeeRate:   common.DefaultFeeRate,
			CreatedAt: now,
		}
		if _, err := tx.NewInsert().Model(settings).Returning("NULL").Exec(ctx); err != nil {
			return err
		}
		for _, role := range []string{common.RoleDefaultAdmin, common.RoleAdmin} {
			grant := &models.RoleGrant{
				Role:      role,
				Address:   deployer.Hex(),
				GrantedBy: deployer.Hex(),
				CreatedAt: now,
			}
			if _, err := tx.NewInsert().Model(grant).Returning("NULL").Exec(ctx); err != nil {
				return err
			}
		}
		svc.Logger.Infof("Router initialized: chain_id:%d fee_rate:%d deployer:%s", settings.ChainID, settings.FeeRate, deployer.Hex())
		return nil
	})
	if err != nil {
		return nil, err
	}
	feeRateGauge.Set(float64(settings.FeeRate))
	return settings, nil
}

// ChainID returns the chain id fixed at construction.
func (svc *RouterService) ChainID(ctx context.Context) (int64, error) {
	settings, err := loadSettings(ctx, svc.DB)
	if err != nil {
		return 0, err
	}
	return settings.ChainID, nil
}

func loadSettings(ctx context.Context, db bun.IDB) (*models.RouterSettings, error) {
	settings := &models.RouterSettings{}
	err := db.NewSelect().Model(settings).Where("id = ?", models.SettingsID).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// publish fans a committed transition out to subscribers; it never blocks the caller.
func (svc *RouterService) publish(eventType string, actor ethcommon.Address, invoice *models.Invoice) {
	invoiceEventsCounter.WithLabelValues(eventType).Inc()
	if svc.InvoicePubSub == nil {
		return
	}
	event := models.InvoiceEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		ChainID:    svc.Config.ChainID,
		Actor:      actor.Hex(),
		OccurredAt: svc.now(),
		Invoice:    *invoice,
	}
	if dropped := svc.InvoicePubSub.Publish(eventType, event); dropped > 0 {
		svc.Logger.Warnf("Dropped %s event for invoice %s on %d slow subscribers", eventType, invoice.ID, dropped)
	}
}

func newLedgerEntry(invoice *models.Invoice, entryType string, from, to string, amount uint64, now time.Time) *models.TransactionEntry {
	return &models.TransactionEntry{
		ID:          uuid.NewString(),
		InvoiceID:   invoice.ID,
		EntryType:   entryType,
		FromAddress: from,
		ToAddress:   to,
		TokenType:   invoice.TokenType,
		Amount:      amount,
		CreatedAt:   now,
	}
}
