package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"dukapos/backend/internal/domain"
	"dukapos/backend/internal/reports"
	"dukapos/backend/internal/store"
)

// ListProducts returns the catalog for one branch; an empty branchID falls
// back to the shop's currently selected branch.
func (s *Service) ListProducts(ctx context.Context, branchID string) []domain.Product {
	branch := s.resolveBranch(branchID)
	return reports.ForBranch(s.store.Products(), branch)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.store.ProductByID(strings.TrimSpace(id))
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Supplier = strings.TrimSpace(req.Supplier)
	if req.Name == "" {
		return domain.Product{}, store.ErrInvalidInput
	}
	if req.CostPrice < 0 || req.SellingPrice < 0 || req.Quantity < 0 || req.ReorderThreshold < 0 {
		return domain.Product{}, store.ErrInvalidInput
	}

	product := s.store.AddProduct(domain.Product{
		Name:             req.Name,
		CostPrice:        req.CostPrice,
		SellingPrice:     req.SellingPrice,
		Quantity:         req.Quantity,
		Supplier:         req.Supplier,
		ReorderThreshold: req.ReorderThreshold,
		BranchID:         s.resolveBranch(req.BranchID),
	})

	s.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"branch":     product.BranchID,
	}).Info("product created")
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}

	existing, err := s.store.ProductByID(strings.TrimSpace(id))
	if err != nil {
		return domain.Product{}, err
	}

	updated := existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.CostPrice != nil {
		if *req.CostPrice < 0 {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		if *req.SellingPrice < 0 {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.SellingPrice = *req.SellingPrice
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.Quantity = *req.Quantity
	}
	if req.Supplier != nil {
		updated.Supplier = strings.TrimSpace(*req.Supplier)
	}
	if req.ReorderThreshold != nil {
		if *req.ReorderThreshold < 0 {
			return domain.Product{}, store.ErrInvalidInput
		}
		updated.ReorderThreshold = *req.ReorderThreshold
	}

	return s.store.UpdateProduct(updated)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.store.DeleteProduct(strings.TrimSpace(id)); err != nil {
		return err
	}
	s.log.WithField("product_id", id).Info("product deleted")
	return nil
}

func (s *Service) RestockProduct(ctx context.Context, id string, req domain.RestockRequest) (domain.Product, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}
	if req.Quantity < 1 {
		return domain.Product{}, store.ErrInvalidInput
	}

	product, err := s.store.RestockProduct(strings.TrimSpace(id), req.Quantity)
	if err != nil {
		return domain.Product{}, err
	}
	s.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"added":      req.Quantity,
		"on_hand":    product.Quantity,
	}).Info("product restocked")
	return product, nil
}

// BulkRestock applies the recommended quantity to every selected product in
// one pass. Any unknown id fails the whole request before stock changes.
func (s *Service) BulkRestock(ctx context.Context, req domain.BulkRestockRequest) (domain.BulkRestockResponse, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return domain.BulkRestockResponse{}, err
	}
	if len(req.ProductIDs) == 0 {
		return domain.BulkRestockResponse{}, store.ErrInvalidInput
	}

	for _, id := range req.ProductIDs {
		if _, err := s.store.ProductByID(strings.TrimSpace(id)); err != nil {
			return domain.BulkRestockResponse{}, fmt.Errorf("product %s: %w", id, err)
		}
	}

	resp := domain.BulkRestockResponse{Restocked: make([]domain.Product, 0, len(req.ProductIDs))}
	for _, id := range req.ProductIDs {
		id = strings.TrimSpace(id)
		product, err := s.store.ProductByID(id)
		if err != nil {
			return domain.BulkRestockResponse{}, err
		}
		qty := reports.RecommendedQty(product)
		restocked, err := s.store.RestockProduct(id, qty)
		if err != nil {
			return domain.BulkRestockResponse{}, err
		}
		resp.Restocked = append(resp.Restocked, restocked)
		resp.TotalCost += product.CostPrice * float64(qty)
	}

	s.log.WithFields(logrus.Fields{
		"products":   len(resp.Restocked),
		"total_cost": resp.TotalCost,
	}).Info("bulk restock applied")
	return resp, nil
}

func (s *Service) RestockSuggestions(ctx context.Context, branchID string) []domain.RestockSuggestion {
	branch := s.resolveBranch(branchID)
	return reports.Suggestions(s.store.Products(), branch)
}

func (s *Service) LowStockProducts(ctx context.Context, branchID string) []domain.Product {
	branch := s.resolveBranch(branchID)
	return reports.LowStock(reports.ForBranch(s.store.Products(), branch))
}

// --- damaged goods ---

func (s *Service) ListDamagedItems(ctx context.Context, branchID string) domain.DamagedGoodsSummary {
	branch := s.resolveBranch(branchID)
	return reports.DamagedSummary(s.store.DamagedItems(), branch)
}

// RecordDamagedItem logs spoiled or broken stock. The log is informational
// and does not adjust the product quantity.
func (s *Service) RecordDamagedItem(ctx context.Context, req domain.DamagedItemCreateRequest) (domain.DamagedItem, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if strings.TrimSpace(req.ProductID) == "" || req.Quantity < 1 || req.Reason == "" {
		return domain.DamagedItem{}, store.ErrInvalidInput
	}

	product, err := s.store.ProductByID(strings.TrimSpace(req.ProductID))
	if err != nil {
		return domain.DamagedItem{}, err
	}

	item := s.store.AddDamagedItem(domain.DamagedItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		BranchID:    s.resolveBranch(req.BranchID),
	})
	return item, nil
}

func (s *Service) DeleteDamagedItem(ctx context.Context, id string) error {
	return s.store.DeleteDamagedItem(strings.TrimSpace(id))
}
