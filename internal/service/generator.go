package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
	"github.com/ledgerops/tx-ledger-go/internal/infra/observability"
	"github.com/ledgerops/tx-ledger-go/internal/port"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Generator states. The state machine is two-valued and transitions are
// idempotent: starting a running generator or stopping a stopped one is
// a no-op that reports the current state.
const (
	GeneratorStopped = "Stopped"
	GeneratorRunning = "Running"
)

const generatorTickTimeout = 5 * time.Second

// Generator inserts synthetic transactions on a cron schedule. It is an
// admin tool for exercising the dashboard against a live data stream.
type Generator struct {
	store    port.TransactionStore
	metrics  *observability.Metrics
	logger   *zap.Logger
	schedule string

	mu    sync.Mutex
	cron  *cron.Cron
	state string
}

// NewGenerator creates a stopped generator. The schedule is a six-field
// cron expression (seconds first).
func NewGenerator(store port.TransactionStore, schedule string, metrics *observability.Metrics, logger *zap.Logger) *Generator {
	return &Generator{
		store:    store,
		metrics:  metrics,
		logger:   logger,
		schedule: schedule,
		state:    GeneratorStopped,
	}
}

// Start begins scheduled generation. Calling Start on a running
// generator leaves it untouched and returns the running state.
func (g *Generator) Start() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == GeneratorRunning {
		return g.state, nil
	}

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(g.schedule, g.tick); err != nil {
		return g.state, fmt.Errorf("schedule generator: %w", err)
	}
	c.Start()

	g.cron = c
	g.state = GeneratorRunning
	g.logger.Info("generator started", zap.String("schedule", g.schedule))
	return g.state, nil
}

// Stop halts scheduled generation. A tick already in flight finishes;
// no new ticks fire after Stop returns. Stopping a stopped generator is
// a no-op.
func (g *Generator) Stop() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == GeneratorStopped {
		return g.state
	}

	<-g.cron.Stop().Done()
	g.cron = nil
	g.state = GeneratorStopped
	g.logger.Info("generator stopped")
	return g.state
}

// Status returns the current generator state.
func (g *Generator) Status() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// tick inserts one synthetic transaction. Insert failures are logged
// and counted but never stop the schedule.
func (g *Generator) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), generatorTickTimeout)
	defer cancel()

	tx := RandomTransaction()
	if err := g.store.Insert(ctx, tx); err != nil {
		g.metrics.IncrGeneratorInsert("error")
		g.logger.Warn("generator insert failed", zap.Error(err))
		return
	}
	g.metrics.IncrGeneratorInsert("success")
}

// Value pools for synthetic records.
var (
	genTypes      = []string{domain.TypeDeposit, domain.TypeWithdrawal, domain.TypeTransfer}
	genCountries  = []string{"US", "CA", "GB", "AU", "DE", "FR", "JP", "CN", "IN", "BR"}
	genCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CHF", "CNY", "INR"}
	genOSes       = []string{"Android", "iOS", "Windows", "Linux"}
	genMakers     = []string{"Apple", "Samsung", "Google", "Huawei", "Dell"}
	genModels     = []string{"ProModel", "EliteBook", "Galaxy", "Pixel"}
	genDomains    = []string{"gmail.com", "yahoo.com", "hotmail.com", "outlook.com"}
	genUsernames  = []string{"john", "jane", "user", "account", "customer"}
	genWords      = []string{"transaction", "payment", "transfer", "purchase", "deposit", "withdrawal", "for", "invoice", "bill"}
	genTagKeys    = []string{"category", "source", "type"}
	genTagValues  = []string{"online", "mobile", "transfer"}
)

// RandomTransaction builds one fully-populated synthetic transaction.
// Exported so seeding tools can reuse the same pools.
func RandomTransaction() *domain.Transaction {
	promo := rand.Intn(2) == 0
	return &domain.Transaction{
		TransactionID:            uuid.NewString(),
		Type:                     pick(genTypes),
		Timestamp:                time.Now().UnixMilli(),
		OriginUserID:             uuid.NewString(),
		DestinationUserID:        uuid.NewString(),
		OriginAmountDetails:      randomAmountDetails(),
		DestinationAmountDetails: randomAmountDetails(),
		OriginDeviceData:         randomDeviceData(),
		DestinationDeviceData:    randomDeviceData(),
		PromotionCodeUsed:        &promo,
		Reference:                randomSentence(),
		Description:              randomSentence(),
		Tags: []domain.Tag{
			{Key: pick(genTagKeys), Value: pick(genTagValues)},
		},
		OriginEmail:      randomEmail(),
		DestinationEmail: randomEmail(),
	}
}

func pick(pool []string) string {
	return pool[rand.Intn(len(pool))]
}

func randomAmountDetails() *domain.AmountDetails {
	return &domain.AmountDetails{
		TransactionAmount:   float64(rand.Intn(1000000)) / 100,
		TransactionCurrency: pick(genCurrencies),
		Country:             pick(genCountries),
	}
}

func randomDeviceData() *domain.DeviceData {
	return &domain.DeviceData{
		BatteryLevel:     float64(rand.Intn(101)),
		DeviceLatitude:   rand.Float64()*180 - 90,
		DeviceLongitude:  rand.Float64()*360 - 180,
		IPAddress:        randomIP(),
		DeviceIdentifier: uuid.NewString(),
		VPNUsed:          rand.Intn(2) == 0,
		OperatingSystem:  pick(genOSes),
		DeviceMaker:      pick(genMakers),
		DeviceModel:      pick(genModels),
		DeviceYear:       fmt.Sprintf("%d", 2015+rand.Intn(9)),
		AppVersion:       fmt.Sprintf("%d.%d.%d", 1+rand.Intn(5), rand.Intn(10), rand.Intn(10)),
	}
}

func randomIP() string {
	return fmt.Sprintf("%d.%d.%d.%d",
		1+rand.Intn(255), 1+rand.Intn(255), 1+rand.Intn(255), 1+rand.Intn(255))
}

func randomEmail() string {
	return fmt.Sprintf("%s%d@%s", pick(genUsernames), 1+rand.Intn(999), pick(genDomains))
}

func randomSentence() string {
	n := 3 + rand.Intn(5)
	words := make([]string, n)
	for i := range words {
		words[i] = pick(genWords)
	}
	return strings.Join(words, " ")
}
