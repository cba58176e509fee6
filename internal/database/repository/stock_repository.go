package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/models"
)

// StockRepository defines the interface for stock data operations
type StockRepository interface {
	Create(stock *models.Stock) error
	FindByID(id uint) (*models.Stock, error)
	FindAll() ([]models.Stock, error)
	FindByOwner(ownerID uint) ([]models.Stock, error)
	Update(stock *models.Stock) error
	Delete(id uint) error
}

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new stock repository instance
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Create(stock *models.Stock) error {
	return r.db.Omit("Owner").Create(stock).Error
}

func (r *stockRepository) FindByID(id uint) (*models.Stock, error) {
	var stock models.Stock
	err := r.db.First(&stock, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindAll returns every stock with its owner, oldest first
func (r *stockRepository) FindAll() ([]models.Stock, error) {
	var stocks []models.Stock
	err := r.db.Preload("Owner").Order("id ASC").Find(&stocks).Error
	return stocks, err
}

// FindByOwner returns the stocks owned by ownerID, oldest first
func (r *stockRepository) FindByOwner(ownerID uint) ([]models.Stock, error) {
	var stocks []models.Stock
	err := r.db.Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&stocks).Error
	return stocks, err
}

func (r *stockRepository) Update(stock *models.Stock) error {
	result := r.db.Model(&models.Stock{}).
		Where("id = ?", stock.ID).
		Updates(map[string]interface{}{
			"name":        stock.Name,
			"price":       stock.Price,
			"last_update": stock.LastUpdate,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStockNotFound
	}

	return nil
}

func (r *stockRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Stock{}, id)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStockNotFound
	}

	return nil
}

// Repository errors
var (
	ErrStockNotFound = errors.New("stock not found")
)
