// Package services реализует обнаружение подписок по подключённым счетам:
// подключение банковских и почтовых источников, синхронизацию списаний
// и поиск регулярных платежей среди транзакций.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/subzero-app/subzero/internal/models"
)

// AccountRepository определяет методы для работы с подключёнными счетами.
type AccountRepository interface {
	LinkAccount(ctx context.Context, acc models.LinkedAccount) (*models.LinkedAccount, error)
	ListAccounts(ctx context.Context, username string) ([]models.LinkedAccount, error)
	MarkAccountSynced(ctx context.Context, username, id string, syncedAt time.Time) (int, error)
	AddTransaction(ctx context.Context, tx models.Transaction) error
	ListTransactions(ctx context.Context, accountID string, limit int) ([]models.Transaction, error)
}

// ErrNoSources возвращается, когда обнаружение запущено без единого источника данных.
var ErrNoSources = errors.New("at least one data source must be selected")

// ErrAccountNotFound возвращается, когда счёт не принадлежит пользователю.
var ErrAccountNotFound = errors.New("account not found")

// DiscoveryService реализует подключение счетов и поиск подписок по транзакциям.
type DiscoveryService struct {
	repo AccountRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewDiscoveryService создает новый экземпляр DiscoveryService.
func NewDiscoveryService(repo AccountRepository, log *slog.Logger) *DiscoveryService {
	return &DiscoveryService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// LinkAccount подключает новый внешний счёт пользователя.
func (s *DiscoveryService) LinkAccount(ctx context.Context, username string, req models.DummyLinkAccount) (*models.LinkedAccount, error) {
	acc := models.LinkedAccount{
		ID:       uuid.NewString(),
		Username: username,
		Kind:     req.Kind,
		Provider: req.Provider,
		Label:    req.Label,
	}
	linked, err := s.repo.LinkAccount(ctx, acc)
	if err != nil {
		return nil, err
	}
	s.log.Info("linked account", slog.String("id", linked.ID), slog.String("kind", linked.Kind))
	return linked, nil
}

// ListAccounts возвращает подключённые счета пользователя.
func (s *DiscoveryService) ListAccounts(ctx context.Context, username string) ([]models.LinkedAccount, error) {
	return s.repo.ListAccounts(ctx, username)
}

// SyncAccount синхронизирует счёт: отмечает время синхронизации и при
// первом запуске наполняет счёт демонстрационными списаниями, поскольку
// реальная интеграция с банком или почтой остаётся за рамками приложения.
func (s *DiscoveryService) SyncAccount(ctx context.Context, username, accountID string) (*models.LinkedAccount, error) {
	accs, err := s.repo.ListAccounts(ctx, username)
	if err != nil {
		return nil, err
	}
	var account *models.LinkedAccount
	for i := range accs {
		if accs[i].ID == accountID {
			account = &accs[i]
			break
		}
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	existing, err := s.repo.ListTransactions(ctx, accountID, 1)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		if err := s.seedTransactions(ctx, account); err != nil {
			return nil, err
		}
	}

	syncedAt := s.now()
	if _, err := s.repo.MarkAccountSynced(ctx, username, accountID, syncedAt); err != nil {
		return nil, err
	}
	account.LastSynced = &syncedAt
	s.log.Info("synced account", slog.String("id", accountID))
	return account, nil
}

// Transactions возвращает списания по счёту пользователя.
func (s *DiscoveryService) Transactions(ctx context.Context, username, accountID string, limit int) ([]models.Transaction, error) {
	accs, err := s.repo.ListAccounts(ctx, username)
	if err != nil {
		return nil, err
	}
	owned := false
	for _, acc := range accs {
		if acc.ID == accountID {
			owned = true
			break
		}
	}
	if !owned {
		return nil, ErrAccountNotFound
	}
	if limit <= 0 {
		limit = 100
	}
	return s.repo.ListTransactions(ctx, accountID, limit)
}

// Discover ищет регулярные платежи среди транзакций подключённых счетов.
// Платёж считается подпиской, если один и тот же получатель списывал
// одну и ту же сумму минимум дважды; три и более списаний дают
// высокую уверенность, два — среднюю.
func (s *DiscoveryService) Discover(ctx context.Context, username string, opts models.DiscoveryOptions) ([]models.DiscoveredCandidate, error) {
	if !opts.IncludeBankData && !opts.IncludeEmailData {
		return nil, ErrNoSources
	}

	accs, err := s.repo.ListAccounts(ctx, username)
	if err != nil {
		return nil, err
	}

	var candidates []models.DiscoveredCandidate
	for _, acc := range accs {
		switch acc.Kind {
		case models.AccountKindBank:
			if !opts.IncludeBankData {
				continue
			}
		case models.AccountKindEmail:
			if !opts.IncludeEmailData {
				continue
			}
		default:
			continue
		}

		txs, err := s.repo.ListTransactions(ctx, acc.ID, 500)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, recurringCharges(acc.Kind, txs)...)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].MonthlyAmount > candidates[j].MonthlyAmount
	})
	s.log.Info("discovery finished", slog.Int("candidates", len(candidates)))
	return candidates, nil
}

func recurringCharges(kind string, txs []models.Transaction) []models.DiscoveredCandidate {
	type chargeKey struct {
		merchant string
		amount   float64
	}
	type chargeInfo struct {
		count      int
		lastCharge time.Time
	}

	source := models.SourceBank
	if kind == models.AccountKindEmail {
		source = models.SourceEmail
	}

	charges := make(map[chargeKey]*chargeInfo)
	var order []chargeKey
	for _, tx := range txs {
		key := chargeKey{merchant: tx.Merchant, amount: tx.Amount}
		info, ok := charges[key]
		if !ok {
			info = &chargeInfo{}
			charges[key] = info
			order = append(order, key)
		}
		info.count++
		if tx.ChargedAt.After(info.lastCharge) {
			info.lastCharge = tx.ChargedAt
		}
	}

	var candidates []models.DiscoveredCandidate
	for _, key := range order {
		info := charges[key]
		if info.count < 2 {
			continue
		}
		confidence := models.ConfidenceMedium
		if info.count >= 3 {
			confidence = models.ConfidenceHigh
		}
		candidates = append(candidates, models.DiscoveredCandidate{
			Name:          key.merchant,
			Category:      guessCategory(key.merchant),
			MonthlyAmount: key.amount,
			Source:        source,
			Confidence:    confidence,
			LastCharge:    info.lastCharge,
		})
	}
	return candidates
}

// merchantCategories — известные сервисы и их категории для обнаруженных подписок.
var merchantCategories = map[string]string{
	"YouTube Premium":    "Entertainment",
	"Netflix":            "Entertainment",
	"Spotify":            "Entertainment",
	"Dropbox Plus":       "Cloud Storage",
	"The New York Times": "News",
}

func guessCategory(merchant string) string {
	if category, ok := merchantCategories[merchant]; ok {
		return category
	}
	return "Other"
}

// seedTransactions наполняет пустой счёт демонстрационными регулярными
// списаниями, имитируя выгрузку от банка или почтового провайдера.
func (s *DiscoveryService) seedTransactions(ctx context.Context, account *models.LinkedAccount) error {
	type fixture struct {
		merchant string
		amount   float64
		months   int
	}
	var fixtures []fixture
	if account.Kind == models.AccountKindBank {
		fixtures = []fixture{
			{"YouTube Premium", 11.99, 3},
			{"The New York Times", 4.25, 2},
		}
	} else {
		fixtures = []fixture{
			{"Dropbox Plus", 9.99, 3},
		}
	}

	now := s.now()
	for _, f := range fixtures {
		for i := range f.months {
			tx := models.Transaction{
				ID:        uuid.NewString(),
				AccountID: account.ID,
				Merchant:  f.merchant,
				Amount:    f.amount,
				ChargedAt: now.AddDate(0, -i, 0),
			}
			if err := s.repo.AddTransaction(ctx, tx); err != nil {
				return fmt.Errorf("seed transactions: %w", err)
			}
		}
	}
	return nil
}
