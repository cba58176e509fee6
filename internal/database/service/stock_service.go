package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/repository"
)

// View selects which stocks a listing shows
type View int

const (
	// ViewBoard lists every stock regardless of owner
	ViewBoard View = iota
	// ViewEntry lists only the current user's stocks
	ViewEntry
)

// StockService defines the interface for stock business logic
type StockService interface {
	ListAll() ([]models.Stock, error)
	ListOwned(ownerID uint) ([]models.Stock, error)
	ListForView(view View, userID uint) ([]models.Stock, error)
	Create(ownerID uint, input StockInput) (*models.Stock, error)
	Update(ownerID, stockID uint, input StockInput) (*models.Stock, error)
	Delete(ownerID, stockID uint) error
}

type stockService struct {
	stockRepo repository.StockRepository
	logger    *slog.Logger
}

// NewStockService creates a new stock service instance
func NewStockService(stockRepo repository.StockRepository, logger *slog.Logger) StockService {
	return &stockService{
		stockRepo: stockRepo,
		logger:    logger,
	}
}

// today is the current calendar date in UTC
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *stockService) ListAll() ([]models.Stock, error) {
	return s.stockRepo.FindAll()
}

func (s *stockService) ListOwned(ownerID uint) ([]models.Stock, error) {
	return s.stockRepo.FindByOwner(ownerID)
}

func (s *stockService) ListForView(view View, userID uint) ([]models.Stock, error) {
	if view == ViewEntry {
		return s.ListOwned(userID)
	}
	return s.ListAll()
}

func (s *stockService) Create(ownerID uint, input StockInput) (*models.Stock, error) {
	name, price, err := parseStockInput(input)
	if err != nil {
		return nil, err
	}

	date := today()
	stock := &models.Stock{
		Name:       name,
		Price:      price,
		CreateDate: date,
		LastUpdate: date,
		OwnerID:    ownerID,
	}

	if err := s.stockRepo.Create(stock); err != nil {
		s.logger.Error("❌ [StockService] Failed to create stock", "owner_id", ownerID, "error", err)
		return nil, err
	}

	s.logger.Info("✅ [StockService] Stock created", "stock_id", stock.ID, "owner_id", ownerID)
	return stock, nil
}

func (s *stockService) Update(ownerID, stockID uint, input StockInput) (*models.Stock, error) {
	stock, err := s.ownedStock(ownerID, stockID)
	if err != nil {
		return nil, err
	}

	name, price, err := parseStockInput(input)
	if err != nil {
		return nil, err
	}

	stock.Name = name
	stock.Price = price
	stock.LastUpdate = today()

	if err := s.stockRepo.Update(stock); err != nil {
		s.logger.Error("❌ [StockService] Failed to update stock", "stock_id", stockID, "error", err)
		return nil, err
	}

	s.logger.Info("✏️ [StockService] Stock updated", "stock_id", stockID, "owner_id", ownerID)
	return stock, nil
}

func (s *stockService) Delete(ownerID, stockID uint) error {
	if _, err := s.ownedStock(ownerID, stockID); err != nil {
		return err
	}

	if err := s.stockRepo.Delete(stockID); err != nil {
		if !errors.Is(err, repository.ErrStockNotFound) {
			s.logger.Error("❌ [StockService] Failed to delete stock", "stock_id", stockID, "error", err)
		}
		return err
	}

	s.logger.Info("🗑️ [StockService] Stock deleted", "stock_id", stockID, "owner_id", ownerID)
	return nil
}

// ownedStock loads a stock and checks that ownerID may modify it
func (s *stockService) ownedStock(ownerID, stockID uint) (*models.Stock, error) {
	stock, err := s.stockRepo.FindByID(stockID)
	if err != nil {
		return nil, err
	}

	if !stock.OwnedBy(ownerID) {
		s.logger.Warn("⚠️ [StockService] Stock owned by another user",
			"stock_id", stockID,
			"owner_id", stock.OwnerID,
			"user_id", ownerID,
		)
		return nil, ErrStockNotOwned
	}

	return stock, nil
}

// Service errors
var (
	ErrStockNotOwned = errors.New("stock belongs to another user")
)
